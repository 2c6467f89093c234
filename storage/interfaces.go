package storage

import (
	"context"

	"github.com/poiesic/specmatch/core"
)

// CatalogRepository provides operations for managing catalog products.
// Implementations must be thread-safe and support concurrent access.
type CatalogRepository interface {
	// PutProducts inserts or replaces products keyed by SKU.
	// Sets InsertedAt on first write and refreshes UpdatedAt on every write.
	// Returns the products with timestamps populated.
	PutProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// GetProduct retrieves a single product by SKU.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, sku string) (*core.Product, error)

	// GetProducts retrieves multiple products by SKU.
	// Returns only the products that exist (no error for missing products).
	GetProducts(ctx context.Context, skus ...string) ([]*core.Product, error)

	// ListProducts retrieves every product in the catalog, ordered by SKU.
	ListProducts(ctx context.Context) ([]*core.Product, error)

	// DeleteProducts removes products by SKU.
	// Returns ErrNotFound if any product doesn't exist.
	DeleteProducts(ctx context.Context, skus ...string) error

	// Count returns the number of products in the catalog.
	Count(ctx context.Context) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
