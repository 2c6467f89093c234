package index

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrRetrieval indicates the query embedding or search failed.
	// Callers degrade to zero candidates for that query rather than aborting.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = errors.New("result limit must be at least 1")

	// ErrDimensionMismatch indicates a vector whose dimensionality differs
	// from the index's established embedding dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyVector indicates a product without a populated embedding.
	ErrEmptyVector = errors.New("product has no embedding vector")
)
