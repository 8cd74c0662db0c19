package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"faqbot/internal/contextutil"
	"faqbot/internal/search"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks faqbot/internal/search Engine

// AskHandler handles HTTP requests for answering questions against the
// question-answer corpus.
type AskHandler struct {
	engine   search.Engine
	renderer goldmark.Markdown
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine search.Engine) *AskHandler {
	return &AskHandler{
		engine: engine,
		renderer: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
		),
	}
}

// AskRequest represents the HTTP request payload for questions.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for questions.
// When Found is false, Answer carries the fallback message and
// SuggestedQuestions carries follow-up questions the user can try.
type AskResponse struct {
	Found              bool     `json:"found"`
	Answer             string   `json:"answer"`
	AnswerHTML         string   `json:"answer_html"`
	MatchedQuestion    string   `json:"matched_question,omitempty"`
	Similarity         float64  `json:"similarity,omitempty"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP answers a user question. The engine runs the hybrid search and
// the confidence gate; this layer only validates input, maps errors to
// status codes, and renders the answer markdown to HTML.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
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

	result, err := h.engine.Answer(ctx, req.Question)
	if err != nil {
		handleEngineError(w, ctx, err, "Failed to answer question")
		return
	}

	resp := AskResponse{
		Found:              result.Found,
		Answer:             result.Answer,
		AnswerHTML:         h.renderMarkdown(ctx, result.Answer),
		MatchedQuestion:    result.Question,
		Similarity:         result.Similarity,
		SuggestedQuestions: result.Suggestions,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// renderMarkdown converts corpus answer markdown to HTML. Rendering
// failures fall back to the raw text rather than failing the request.
func (h *AskHandler) renderMarkdown(ctx context.Context, text string) string {
	var buf bytes.Buffer
	if err := h.renderer.Convert([]byte(text), &buf); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "markdown rendering failed", "error", err)
		return text
	}
	return strings.TrimSpace(buf.String())
}

// handleEngineError maps search engine errors to HTTP status codes.
func handleEngineError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "search engine error", "error", err)

	switch {
	case errors.Is(err, search.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Question is required")
	case errors.Is(err, search.ErrEmbedding):
		writeError(w, http.StatusBadGateway, "Embedding service unavailable")
	case errors.Is(err, search.ErrVectorStore):
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
	default:
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
