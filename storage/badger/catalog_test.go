package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.CatalogRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testProduct(sku string) *core.Product {
	return &core.Product{
		SKU:           sku,
		Name:          "11kV cable " + sku,
		Category:      "HT Power Cable",
		DatasheetText: "11kV aluminium conductor XLPE insulated cable",
		Specs: core.AttributeRecord{
			core.KeyVoltage:           core.Number(11000),
			core.KeyConductorMaterial: core.Token("aluminum"),
		},
		Vector: []float32{0.6, 0.8},
	}
}

func TestPutAndGetProduct(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stored, err := repo.PutProducts(ctx, testProduct("PC-300"))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].InsertedAt.IsZero())
	assert.False(t, stored[0].UpdatedAt.IsZero())

	got, err := repo.GetProduct(ctx, "PC-300")
	require.NoError(t, err)
	assert.Equal(t, "PC-300", got.SKU)
	assert.Equal(t, core.Number(11000), got.Specs[core.KeyVoltage])
	assert.Equal(t, []float32{0.6, 0.8}, got.Vector)
}

func TestGetProductNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutProductReplacePreservesInsertedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.PutProducts(ctx, testProduct("PC-300"))
	require.NoError(t, err)
	// Take the baseline from the stored copy: timestamps persist at
	// microsecond precision, so the in-memory value is not comparable.
	first, err := repo.GetProduct(ctx, "PC-300")
	require.NoError(t, err)
	insertedAt := first.InsertedAt

	updated := testProduct("PC-300")
	updated.Name = "renamed"
	_, err = repo.PutProducts(ctx, updated)
	require.NoError(t, err)

	got, err := repo.GetProduct(ctx, "PC-300")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, insertedAt, got.InsertedAt)
	assert.False(t, got.UpdatedAt.Before(insertedAt))
}

func TestGetProductsSkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.PutProducts(ctx, testProduct("PC-1"), testProduct("PC-2"))
	require.NoError(t, err)

	got, err := repo.GetProducts(ctx, "PC-2", "missing", "PC-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListProductsOrderedBySKU(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, sku := range []string{"PC-30", "PC-10", "PC-20"} {
		_, err := repo.PutProducts(ctx, testProduct(sku))
		require.NoError(t, err)
	}

	got, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "PC-10", got[0].SKU)
	assert.Equal(t, "PC-20", got[1].SKU)
	assert.Equal(t, "PC-30", got[2].SKU)
}

func TestDeleteProducts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.PutProducts(ctx, testProduct("PC-1"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProducts(ctx, "PC-1"))

	_, err = repo.GetProduct(ctx, "PC-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteProducts(ctx, "PC-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 5; i++ {
		_, err := repo.PutProducts(ctx, testProduct(fmt.Sprintf("PC-%d", i)))
		require.NoError(t, err)
	}

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
