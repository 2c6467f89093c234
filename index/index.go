package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/core"
)

// Index is an in-memory vector index over product embeddings.
// It wraps an external embedding function for query-time embedding and
// answers top-K nearest-neighbor queries by cosine similarity.
type Index struct {
	mu       sync.RWMutex
	embedder ai.Embedder
	vectors  map[string][]float32 // SKU -> unit-normalized embedding
	dim      int                  // established embedding dimension, 0 until first Upsert
	logger   *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// New creates a vector index backed by the given embedder.
func New(embedder ai.Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Index{
		embedder: embedder,
		vectors:  make(map[string][]float32),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	return ix, nil
}

// Upsert registers the products' precomputed embeddings under their SKUs.
// Re-indexing an existing SKU replaces its vector. All vectors must share
// one dimensionality; the first indexed product establishes it.
func (ix *Index) Upsert(products ...*core.Product) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, product := range products {
		if product == nil || product.SKU == "" {
			return fmt.Errorf("%w: product without SKU", core.ErrInvalidProduct)
		}
		if len(product.Vector) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyVector, product.SKU)
		}
		if ix.dim == 0 {
			ix.dim = len(product.Vector)
		}
		if len(product.Vector) != ix.dim {
			return fmt.Errorf("%w: %s has %d, index has %d",
				ErrDimensionMismatch, product.SKU, len(product.Vector), ix.dim)
		}

		ix.vectors[product.SKU] = NormalizeVector(product.Vector)
	}

	return nil
}

// Remove drops SKUs from the index. Unknown SKUs are ignored.
func (ix *Index) Remove(skus ...string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, sku := range skus {
		delete(ix.vectors, sku)
	}
}

// Len returns the number of indexed products.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Search embeds the query text and returns the k most similar products by
// cosine similarity, highest first, ties broken by SKU order. k is clamped
// to the catalog size. An empty catalog yields an empty result and no error;
// an embedding failure is reported as ErrRetrieval.
func (ix *Index) Search(ctx context.Context, queryText string, k int) ([]core.SimilarityHit, error) {
	if k < 1 {
		return nil, ErrInvalidLimit
	}

	ix.mu.RLock()
	if len(ix.vectors) == 0 {
		ix.mu.RUnlock()
		return []core.SimilarityHit{}, nil
	}
	ix.mu.RUnlock()

	queryVector, err := ix.embedder.EmbedText(ctx, queryText)
	if err != nil {
		ix.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(queryVector) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d",
			ErrDimensionMismatch, len(queryVector), ix.dim)
	}
	query := NormalizeVector(queryVector)

	hits := make([]core.SimilarityHit, 0, len(ix.vectors))
	for sku, vector := range ix.vectors {
		hits = append(hits, core.SimilarityHit{SKU: sku, Score: dot(query, vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].SKU < hits[j].SKU
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}
