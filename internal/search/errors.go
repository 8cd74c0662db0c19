package search

import "errors"

var (
	// ErrInvalidInput indicates the caller supplied an unusable query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbedding indicates the embedding service failed or returned an
	// unusable vector.
	ErrEmbedding = errors.New("embedding service error")

	// ErrVectorStore indicates the vector store was unreachable or returned
	// an error.
	ErrVectorStore = errors.New("vector store error")
)
