package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"faqbot/internal/contextutil"
	"faqbot/internal/search"
	"faqbot/internal/storage"
	"faqbot/internal/vectorstore"
)

const defaultBatchSize = 32

// Stats summarizes one pipeline run.
type Stats struct {
	Total    int // rows read from the dataset
	Embedded int // rows embedded and upserted this run
	Skipped  int // rows unchanged since the last run
}

// Pipeline embeds dataset rows and upserts them into the vector store.
// A sqlite ledger keeps a content hash per point so re-running the pipeline
// only re-embeds new or changed rows.
type Pipeline struct {
	ledger     storage.QAStore
	embedder   search.Embedder
	store      vectorstore.VectorStore
	collection string
	vectorSize int
	batchSize  int
}

// NewPipeline wires an ingestion pipeline.
func NewPipeline(ledger storage.QAStore, embedder search.Embedder, store vectorstore.VectorStore, collection string, vectorSize int) *Pipeline {
	return &Pipeline{
		ledger:     ledger,
		embedder:   embedder,
		store:      store,
		collection: collection,
		vectorSize: vectorSize,
		batchSize:  defaultBatchSize,
	}
}

// Run ensures the collection exists, embeds every new or changed pair and
// upserts it with its question and answer as payload. Point IDs are derived
// deterministically from the question text so re-ingesting a row overwrites
// its previous point.
func (p *Pipeline) Run(ctx context.Context, pairs []QAPair) (Stats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	stats := Stats{Total: len(pairs)}

	if err := p.store.EnsureCollection(ctx, p.collection, p.vectorSize); err != nil {
		return stats, fmt.Errorf("failed to ensure collection: %w", err)
	}

	type pending struct {
		pair QAPair
		id   string
		hash string
	}
	var todo []pending

	for _, pair := range pairs {
		id := PointID(pair.Question)
		hash := contentHash(pair)

		existing, err := p.ledger.GetByID(ctx, id)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return stats, fmt.Errorf("failed to check ledger: %w", err)
		}
		if existing != nil && existing.ContentHash == hash {
			stats.Skipped++
			continue
		}
		todo = append(todo, pending{pair: pair, id: id, hash: hash})
	}

	logger.InfoContext(ctx, "ingestion planned", "total", stats.Total, "pending", len(todo), "skipped", stats.Skipped)

	for start := 0; start < len(todo); start += p.batchSize {
		end := start + p.batchSize
		if end > len(todo) {
			end = len(todo)
		}
		batch := todo[start:end]

		questions := make([]string, len(batch))
		for i, item := range batch {
			questions[i] = item.pair.Question
		}

		vectors, err := p.embedder.EmbedTexts(ctx, questions)
		if err != nil {
			return stats, fmt.Errorf("failed to embed batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return stats, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vectors))
		}

		points := make([]vectorstore.Point, len(batch))
		for i, item := range batch {
			points[i] = vectorstore.Point{
				ID:  item.id,
				Vec: vectors[i],
				Meta: map[string]any{
					"question": item.pair.Question,
					"answer":   item.pair.Answer,
				},
			}
		}
		if err := p.store.Upsert(ctx, p.collection, points); err != nil {
			return stats, fmt.Errorf("failed to upsert batch: %w", err)
		}

		for _, item := range batch {
			record := &storage.QAEntryRecord{
				ID:          item.id,
				Question:    item.pair.Question,
				Answer:      item.pair.Answer,
				ContentHash: item.hash,
			}
			if err := p.ledger.Upsert(ctx, record); err != nil {
				return stats, fmt.Errorf("failed to record ledger entry: %w", err)
			}
		}
		stats.Embedded += len(batch)
	}

	logger.InfoContext(ctx, "ingestion completed", "embedded", stats.Embedded, "skipped", stats.Skipped)
	return stats, nil
}

// PointID derives the deterministic vector store point ID for a question.
func PointID(question string) string {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(question)).String()
}

func contentHash(pair QAPair) string {
	sum := sha256.Sum256([]byte(pair.Question + "\n" + pair.Answer))
	return hex.EncodeToString(sum[:])
}
