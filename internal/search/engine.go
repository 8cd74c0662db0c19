package search

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"faqbot/internal/contextutil"
	"faqbot/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks faqbot/internal/search Embedder

// Embedder turns text into fixed-dimension vectors. The engine only ever
// embeds the query; corpus vectors are written by the ingestion pipeline.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine answers questions against a fixed question-answer corpus.
type Engine interface {
	// Search returns the fused, reranked candidate list for a query.
	Search(ctx context.Context, query string, opts Options) ([]Result, error)

	// Answer runs Search with defaults and applies the confidence gate,
	// returning either the best answer or the fallback with suggestions.
	Answer(ctx context.Context, query string) (AnswerResult, error)
}

// Config carries the engine's tunable surface. Zero values are replaced by
// the documented defaults in NewEngine.
type Config struct {
	Collection          string
	TopK                int
	VectorWeight        float64
	KeywordWeight       float64
	LexicalWeight       float64
	SimilarityThreshold float64
	FinalScoreThreshold float64
	ScoreMargin         float64
	UseFuzzy            bool
	ScrollPageSize      int
	Suggestions         []string
	Rand                *rand.Rand
	Tuning              Tuning
}

// Documented defaults for the engine configuration.
const (
	DefaultTopK                = 5
	DefaultVectorWeight        = 0.5
	DefaultKeywordWeight       = 0.3
	DefaultLexicalWeight       = 0.2
	DefaultSimilarityThreshold = 0.6
	DefaultFinalScoreThreshold = 0.3
	DefaultScoreMargin         = 0.1
)

// fetchMultiplier widens both retrieval branches so reranking has slack
// beyond the requested topK.
const fetchMultiplier = 3

type engine struct {
	embedder Embedder
	store    vectorstore.VectorStore
	matcher  *Matcher
	cfg      Config

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewEngine wires the hybrid search engine. The store provides both the
// vector similarity search and the corpus scroll that backs the keyword
// branch.
func NewEngine(embedder Embedder, store vectorstore.VectorStore, cfg Config) Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.VectorWeight == 0 && cfg.KeywordWeight == 0 && cfg.LexicalWeight == 0 {
		cfg.VectorWeight = DefaultVectorWeight
		cfg.KeywordWeight = DefaultKeywordWeight
		cfg.LexicalWeight = DefaultLexicalWeight
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if cfg.FinalScoreThreshold == 0 {
		cfg.FinalScoreThreshold = DefaultFinalScoreThreshold
	}
	if cfg.ScoreMargin == 0 {
		cfg.ScoreMargin = DefaultScoreMargin
	}
	if cfg.Tuning == (Tuning{}) {
		cfg.Tuning = DefaultTuning()
	}
	if len(cfg.Suggestions) == 0 {
		cfg.Suggestions = DefaultSuggestions
	}
	return &engine{
		embedder: embedder,
		store:    store,
		matcher:  NewMatcher(store, cfg.Collection, cfg.ScrollPageSize),
		cfg:      cfg,
		rng:      cfg.Rand,
	}
}

func (e *engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	vectorWeight := e.cfg.VectorWeight
	if opts.VectorWeight > 0 {
		vectorWeight = opts.VectorWeight
	}
	keywordWeight := e.cfg.KeywordWeight
	if opts.KeywordWeight > 0 {
		keywordWeight = opts.KeywordWeight
	}
	lexicalWeight := e.cfg.LexicalWeight
	if opts.LexicalWeight > 0 {
		lexicalWeight = opts.LexicalWeight
	}
	similarityThreshold := e.cfg.SimilarityThreshold
	if opts.SimilarityThreshold > 0 {
		similarityThreshold = opts.SimilarityThreshold
	}
	useFuzzy := e.cfg.UseFuzzy
	if opts.UseFuzzy != nil {
		useFuzzy = *opts.UseFuzzy
	}

	fetch := topK * fetchMultiplier

	var (
		vectorResults  []Result
		keywordResults []Result
		keywordErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := e.vectorSearch(gctx, query, fetch, similarityThreshold)
		if err != nil {
			return err
		}
		vectorResults = results
		return nil
	})
	g.Go(func() error {
		// A keyword branch failure degrades to vector-only fusion instead
		// of failing the request.
		results, err := e.matcher.Search(gctx, query, fetch, useFuzzy)
		if err != nil {
			keywordErr = err
			return nil
		}
		keywordResults = results
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if keywordErr != nil {
		logger.WarnContext(ctx, "keyword branch failed, falling back to vector-only ranking", "error", keywordErr)
		if len(vectorResults) > topK {
			vectorResults = vectorResults[:topK]
		}
		return vectorResults, nil
	}

	combined := Combine(vectorResults, keywordResults, vectorWeight, keywordWeight, e.cfg.Tuning)
	reranked := Rerank(query, combined, topK, lexicalWeight, e.cfg.Tuning)

	logger.DebugContext(ctx, "hybrid search completed",
		"query", query,
		"vector_results", len(vectorResults),
		"keyword_results", len(keywordResults),
		"returned", len(reranked))
	return reranked, nil
}

func (e *engine) vectorSearch(ctx context.Context, query string, k int, minScore float64) ([]Result, error) {
	vectors, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrEmbedding, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", ErrEmbedding)
	}

	hits, err := e.store.Search(ctx, e.cfg.Collection, vectors[0], k, float32(minScore))
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", ErrVectorStore, err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		question, _ := hit.Meta["question"].(string)
		answer, _ := hit.Meta["answer"].(string)
		score := float64(hit.Score)
		results = append(results, Result{
			ID:       hit.PointID,
			Question: question,
			Answer:   answer,
			Scores:   Scores{Vector: score},
			Final:    score,
		})
	}
	return results, nil
}

func (e *engine) Answer(ctx context.Context, query string) (AnswerResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return AnswerResult{}, fmt.Errorf("%w: empty question", ErrInvalidInput)
	}

	results, err := e.Search(ctx, query, Options{})
	if err != nil {
		return AnswerResult{}, err
	}
	if len(results) > 0 {
		top := results[0]
		var runnerUp *Result
		if len(results) > 1 {
			runnerUp = &results[1]
		}
		decision := Gate(top, runnerUp, e.cfg.FinalScoreThreshold, e.cfg.ScoreMargin, e.cfg.Tuning)
		if decision.Accepted {
			return AnswerResult{
				Found:      true,
				Question:   top.Question,
				Answer:     top.Answer,
				Similarity: decision.Final,
			}, nil
		}
	}

	return AnswerResult{
		Answer:      FallbackMessage,
		Suggestions: e.sampleSuggestions(),
	}, nil
}

func (e *engine) sampleSuggestions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rng == nil {
		return nil
	}
	n := 1 + e.rng.Intn(2)
	return SampleSuggestions(e.rng, e.cfg.Suggestions, n)
}
