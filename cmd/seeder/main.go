package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"faqbot/internal/config"
	"faqbot/internal/embedding"
	"faqbot/internal/ingest"
	"faqbot/internal/storage"
	"faqbot/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	datasetPath := flag.String("dataset", cfg.DatasetPath, "path to the question-answer xlsx dataset")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	pairs, err := ingest.ReadDataset(*datasetPath)
	if err != nil {
		log.Fatalf("Failed to read dataset: %v", err)
	}
	slog.Info("Dataset loaded", "path", *datasetPath, "rows", len(pairs))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)

	pipeline := ingest.NewPipeline(
		storage.NewQARepo(db),
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.QdrantVectorSize,
	)

	stats, err := pipeline.Run(ctx, pairs)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	slog.Info("Seeding complete",
		"total", stats.Total,
		"embedded", stats.Embedded,
		"skipped", stats.Skipped,
	)
}
