package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	nethttp "net/http"
	"os"
	"time"

	"faqbot/internal/config"
	"faqbot/internal/embedding"
	"faqbot/internal/http"
	"faqbot/internal/search"
	"faqbot/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create hybrid search engine
	engine := search.NewEngine(embedder, vectorStore, search.Config{
		Collection:          cfg.QdrantCollection,
		TopK:                cfg.TopK,
		VectorWeight:        cfg.VectorWeight,
		KeywordWeight:       cfg.KeywordWeight,
		LexicalWeight:       cfg.LexicalWeight,
		SimilarityThreshold: cfg.SimilarityThreshold,
		FinalScoreThreshold: cfg.FinalScoreThreshold,
		ScoreMargin:         cfg.ScoreMargin,
		UseFuzzy:            cfg.UseFuzzy,
		ScrollPageSize:      cfg.ScrollPageSize,
		Rand:                rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	slog.Info("Search engine initialized", "top_k", cfg.TopK, "use_fuzzy", cfg.UseFuzzy)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:      engine,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// parseLogLevel maps the configured level name to a slog level, defaulting
// to info for unknown values.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
