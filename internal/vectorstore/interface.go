package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks faqbot/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents one hit from a similarity search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// ScrolledPoint represents one point returned by a paginated corpus scroll.
// Vectors are omitted; scrolling exists to read payloads.
type ScrolledPoint struct {
	PointID string
	Meta    map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search, discarding hits below minScore.
	Search(ctx context.Context, collection string, query []float32, k int, minScore float32) ([]SearchResult, error)

	// Scroll pages through the collection's points with their payloads.
	// Pass an empty offset for the first page; the returned offset is empty
	// when no pages remain.
	Scroll(ctx context.Context, collection string, limit int, offset string) ([]ScrolledPoint, string, error)

	// EnsureCollection creates the collection if missing and validates the
	// vector size if present.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// GetCollectionInfo returns collection metadata including point count.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)
}
