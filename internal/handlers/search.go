package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"faqbot/internal/contextutil"
	"faqbot/internal/search"
)

// SearchHandler exposes the raw hybrid search with its full score breakdown.
// It exists for tuning and debugging; the user-facing endpoint is /api/ask.
type SearchHandler struct {
	engine search.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchRequest represents the HTTP request payload for debug searches.
// Zero-valued fields fall back to the engine's configured defaults.
type SearchRequest struct {
	Question            string  `json:"question"`
	TopK                int     `json:"top_k,omitempty"`
	VectorWeight        float64 `json:"vector_weight,omitempty"`
	KeywordWeight       float64 `json:"keyword_weight,omitempty"`
	LexicalWeight       float64 `json:"lexical_weight,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	UseFuzzy            *bool   `json:"use_fuzzy,omitempty"`
}

// SearchResponse represents the HTTP response payload for debug searches.
type SearchResponse struct {
	Question string          `json:"question"`
	Results  []search.Result `json:"results"`
}

// ServeHTTP runs a hybrid search and returns the ranked candidates with
// per-signal scores, without applying the confidence gate.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	opts := search.Options{
		TopK:                req.TopK,
		VectorWeight:        req.VectorWeight,
		KeywordWeight:       req.KeywordWeight,
		LexicalWeight:       req.LexicalWeight,
		SimilarityThreshold: req.SimilarityThreshold,
		UseFuzzy:            req.UseFuzzy,
	}

	results, err := h.engine.Search(ctx, req.Question, opts)
	if err != nil {
		handleEngineError(w, ctx, err, "Search failed")
		return
	}
	if results == nil {
		results = []search.Result{}
	}

	resp := SearchResponse{
		Question: req.Question,
		Results: results,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
