package specmatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/specmatch/ai/mock"
	"github.com/poiesic/specmatch/catalog"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSpecs() []catalog.ProductSpec {
	return []catalog.ProductSpec{
		{
			SKU:       "PC-XLPE-11KV-3C-300",
			Name:      "11kV 3C x 300sqmm AL XLPE Cable",
			Category:  "HT Power Cable",
			Datasheet: "11kV aluminium conductor XLPE insulated GI strip armoured power cable 300 sqmm 3 core",
			Specifications: map[string]string{
				"voltage":            "11 kV",
				"conductor_material": "Aluminium",
				"cross_section":      "300 sqmm",
				"core_count":         "3 Core",
				"insulation":         "XLPE",
				"armouring":          "GI Strip",
				"sheathing":          "PVC",
			},
		},
		{
			SKU:       "PC-PVC-1100V-4C-25",
			Name:      "1.1kV 4C x 25sqmm CU PVC Cable",
			Category:  "LT Power Cable",
			Datasheet: "1100V copper conductor PVC insulated unarmoured control cable 25 sqmm 4 core",
			Specifications: map[string]string{
				"voltage":            "1100 V",
				"conductor_material": "Copper",
				"cross_section":      "25 sqmm",
				"core_count":         "4 Core",
				"insulation":         "PVC",
			},
		},
	}
}

func openTestMatcher(t *testing.T, dir string) *Matcher {
	t.Helper()
	m, err := Open(dir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	return m
}

func TestOpenSeedAndMatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	m := openTestMatcher(t, dir)
	defer m.Close()
	ctx := context.Background()

	loader, err := m.NewLoader()
	require.NoError(t, err)
	defer loader.Release()

	count, err := loader.Load(ctx, seedSpecs())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, m.Index().Len())

	pipeline, err := m.NewPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	item := &core.RFPItem{
		ItemID:   1,
		SpecText: "11kV aluminium conductor XLPE insulated GI strip armoured power cable 300 sqmm 3 core",
		RawAttributes: map[core.AttributeKey]string{
			core.KeyVoltage:           "11kV",
			core.KeyConductorMaterial: "Aluminium",
			core.KeyCrossSection:      "300 sqmm",
			core.KeyCoreCount:         "3C",
			core.KeyInsulation:        "XLPE",
			core.KeyArmouring:         "GI Strip",
			core.KeySheathing:         "PVC",
		},
	}
	ranked, err := pipeline.MatchItem(ctx, item)
	require.NoError(t, err)
	require.NotNil(t, ranked.Best())
	assert.Equal(t, "PC-XLPE-11KV-3C-300", ranked.Best().SKU)
	assert.Equal(t, core.StatusExactMatch, ranked.Best().Status)
	assert.True(t, ranked.Viable)
}

func TestOpenRebuildsIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	m := openTestMatcher(t, dir)
	loader, err := m.NewLoader()
	require.NoError(t, err)
	_, err = loader.Load(ctx, seedSpecs())
	require.NoError(t, err)
	loader.Release()
	require.NoError(t, m.Close())

	// Reopen: the index must be rebuilt from stored vectors without
	// re-embedding anything.
	reopened := openTestMatcher(t, dir)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Index().Len())

	count, err := reopened.CatalogRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpenInvalidWeights(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	weights := engine.Weights{core.KeyVoltage: 0.5}
	_, err := Open(dir, WithProvider(mock.NewMockProvider()), WithWeights(weights))
	assert.ErrorIs(t, err, engine.ErrInvalidWeights)
}

func TestOpenCustomThresholds(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	m, err := Open(dir,
		WithProvider(mock.NewMockProvider()),
		WithThresholds(engine.Thresholds{ExactMatch: 95, PartialMatch: 40}))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 95.0, m.Engine().Thresholds().ExactMatch)
}
