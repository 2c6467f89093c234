package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (storage.CatalogRepository, error) {
	return &CatalogRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *CatalogRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutProducts inserts or replaces products keyed by SKU.
func (r *CatalogRepository) PutProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, product := range products {
			key := makeProductKey(product.SKU)

			// Preserve InsertedAt across replacements of the same SKU
			old, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				product.InsertedAt = old.InsertedAt
			} else if product.InsertedAt.IsZero() {
				product.InsertedAt = now
			}
			product.UpdatedAt = now

			value, err := storage.MarshalProduct(product)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// GetProduct retrieves a single product by SKU.
func (r *CatalogRepository) GetProduct(ctx context.Context, sku string) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProduct(tx, makeProductKey(sku))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProducts retrieves multiple products by SKU.
// Missing SKUs are skipped without error.
func (r *CatalogRepository) GetProducts(ctx context.Context, skus ...string) ([]*core.Product, error) {
	var result []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, sku := range skus {
			product, err := readProduct(tx, makeProductKey(sku))
			if err != nil {
				return err
			}
			if product != nil {
				result = append(result, product)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListProducts retrieves every product in the catalog, ordered by SKU.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys are content hashes, so iteration order is not SKU order.
	slices.SortFunc(results, func(a, b *core.Product) int {
		return strings.Compare(a.SKU, b.SKU)
	})
	return results, nil
}

// DeleteProducts removes products by SKU.
func (r *CatalogRepository) DeleteProducts(ctx context.Context, skus ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, sku := range skus {
			key := makeProductKey(sku)
			product, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if product == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of products in the catalog.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readProduct reads a product from the transaction.
// Returns nil without error when the key is absent.
func readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		product, unmarshalErr = storage.UnmarshalProduct(val)
		return unmarshalErr
	})
	return product, err
}
