package catalog

import "errors"

var (
	// ErrRepositoryRequired is returned when the catalog repository is nil.
	ErrRepositoryRequired = errors.New("catalog repository is required")

	// ErrIndexRequired is returned when the vector index is nil.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrEmbedderRequired is returned when the embedder is nil.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrDuplicateSKU is returned when a load batch contains the same SKU twice.
	ErrDuplicateSKU = errors.New("duplicate SKU in catalog")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
