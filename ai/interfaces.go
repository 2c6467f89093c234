package ai

import (
	"context"

	"github.com/poiesic/specmatch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AttributeExtractor extracts raw technical attribute values from a cable
// specification text. The returned values are raw strings; the normalize
// package is responsible for canonicalizing them, so the extractor may pass
// through whatever forms the source text uses ("11kV", "GI Strip", "3 Core").
// Implementations must be thread-safe for concurrent use.
type AttributeExtractor interface {
	// ExtractAttributes analyzes a specification string and returns the
	// attribute values it mentions, keyed by the fixed attribute set.
	// Attributes the text does not mention are simply absent from the map.
	// Returns an empty map if nothing is recognized.
	ExtractAttributes(ctx context.Context, text string) (map[core.AttributeKey]string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and AttributeExtractor
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// AttributeExtractor returns the attribute extraction service.
	// The returned AttributeExtractor is safe for concurrent use.
	AttributeExtractor() AttributeExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
