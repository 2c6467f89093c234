package match

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/specmatch/ai/mock"
	"github.com/poiesic/specmatch/catalog"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/engine"
	"github.com/poiesic/specmatch/index"
	"github.com/poiesic/specmatch/storage"
	"github.com/poiesic/specmatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogSpecs() []catalog.ProductSpec {
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
			SKU:       "PC-XLPE-11KV-3C-240",
			Name:      "11kV 3C x 240sqmm AL XLPE Cable",
			Category:  "HT Power Cable",
			Datasheet: "11kV aluminium conductor XLPE insulated GI strip armoured power cable 240 sqmm 3 core",
			Specifications: map[string]string{
				"voltage":            "11 kV",
				"conductor_material": "Aluminium",
				"cross_section":      "240 sqmm",
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

type testEnv struct {
	repo     storage.CatalogRepository
	index    *index.Index
	embedder *mock.MockEmbedder
}

func newTestEnv(t *testing.T, seed bool) *testEnv {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	idx, err := index.New(embedder)
	require.NoError(t, err)

	if seed {
		loader, err := catalog.NewLoader(repo, idx, embedder)
		require.NoError(t, err)
		defer loader.Release()
		_, err = loader.Load(context.Background(), catalogSpecs())
		require.NoError(t, err)
	}

	return &testEnv{repo: repo, index: idx, embedder: embedder}
}

func newTestPipeline(t *testing.T, env *testEnv, opts ...Option) *Pipeline {
	t.Helper()
	eng, err := engine.NewDefault()
	require.NoError(t, err)
	pipeline, err := NewPipeline(env.repo, env.index, eng, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)
	return pipeline
}

func exactItem() *core.RFPItem {
	return &core.RFPItem{
		ItemID:   1,
		SpecText: "11kV aluminium conductor XLPE insulated GI strip armoured power cable 300 sqmm 3 core",
		Quantity: "5",
		Unit:     "km",
		RawAttributes: map[core.AttributeKey]string{
			core.KeyVoltage:           "11 kV",
			core.KeyConductorMaterial: "Aluminium",
			core.KeyCrossSection:      "300 sq.mm",
			core.KeyCoreCount:         "3C",
			core.KeyInsulation:        "XLPE",
			core.KeyArmouring:         "GI Strip",
			core.KeySheathing:         "PVC",
		},
	}
}

func TestNewPipelineValidation(t *testing.T) {
	env := newTestEnv(t, false)
	eng, err := engine.NewDefault()
	require.NoError(t, err)

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewPipeline(nil, env.index, eng)
		assert.ErrorIs(t, err, ErrCatalogRequired)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewPipeline(env.repo, nil, eng)
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("nil engine", func(t *testing.T) {
		_, err := NewPipeline(env.repo, env.index, nil)
		assert.ErrorIs(t, err, ErrEngineRequired)
	})
}

func TestMatchItemExactMatch(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	ranked, err := pipeline.MatchItem(context.Background(), exactItem())
	require.NoError(t, err)
	require.NotNil(t, ranked)
	assert.Equal(t, 1, ranked.ItemID)
	assert.True(t, ranked.Viable)

	best := ranked.Best()
	require.NotNil(t, best)
	assert.Equal(t, "PC-XLPE-11KV-3C-300", best.SKU)
	assert.Equal(t, 100.0, best.Score)
	assert.Equal(t, core.StatusExactMatch, best.Status)
	assert.InDelta(t, 1.0, float64(best.Similarity), 1e-5)
	assert.Empty(t, best.Deviations)
}

func TestMatchItemRanksCloserCandidateFirst(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	item := exactItem()
	item.RawAttributes[core.KeyCrossSection] = "240 sqmm"
	ranked, err := pipeline.MatchItem(context.Background(), item)
	require.NoError(t, err)

	best := ranked.Best()
	require.NotNil(t, best)
	assert.Equal(t, "PC-XLPE-11KV-3C-240", best.SKU)
	assert.Equal(t, 100.0, best.Score)
}

func TestMatchItemTruncatesToTopN(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env, WithTopN(1))

	ranked, err := pipeline.MatchItem(context.Background(), exactItem())
	require.NoError(t, err)
	assert.Len(t, ranked.Matches, 1)
}

func TestMatchItemEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, false)
	pipeline := newTestPipeline(t, env)

	ranked, err := pipeline.MatchItem(context.Background(), exactItem())
	require.NoError(t, err)
	assert.Empty(t, ranked.Matches)
	assert.False(t, ranked.Viable)
	assert.Nil(t, ranked.Best())
}

func TestMatchItemNilItem(t *testing.T) {
	env := newTestEnv(t, false)
	pipeline := newTestPipeline(t, env)

	_, err := pipeline.MatchItem(context.Background(), nil)
	assert.ErrorIs(t, err, ErrItemRequired)
}

func TestMatchItemRetrievalFailureDegrades(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	env.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}

	ranked, err := pipeline.MatchItem(context.Background(), exactItem())
	require.NoError(t, err)
	assert.Empty(t, ranked.Matches)
	assert.False(t, ranked.Viable)
}

func TestMatchItemUnparsableAttributeDropped(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	item := exactItem()
	item.RawAttributes[core.KeyVoltage] = "to be confirmed"
	ranked, err := pipeline.MatchItem(context.Background(), item)
	require.NoError(t, err)

	// Voltage is dropped from the requirement, so the remaining attributes
	// still produce a perfect score over the reduced weight mass.
	best := ranked.Best()
	require.NotNil(t, best)
	assert.Equal(t, 100.0, best.Score)
}

func TestMatchItemUsesExtractorFallback(t *testing.T) {
	env := newTestEnv(t, true)

	extractor := mock.NewMockAttributeExtractor()
	extractor.ExtractAttributesFunc = func(ctx context.Context, text string) (map[core.AttributeKey]string, error) {
		return map[core.AttributeKey]string{
			core.KeyVoltage:           "11 kV",
			core.KeyConductorMaterial: "Aluminium",
			core.KeyCrossSection:      "300 sqmm",
			core.KeyCoreCount:         "3 Core",
			core.KeyInsulation:        "XLPE",
			core.KeyArmouring:         "GI Strip",
			core.KeySheathing:         "PVC",
		}, nil
	}
	pipeline := newTestPipeline(t, env, WithExtractor(extractor))

	item := exactItem()
	item.RawAttributes = nil
	ranked, err := pipeline.MatchItem(context.Background(), item)
	require.NoError(t, err)

	best := ranked.Best()
	require.NotNil(t, best)
	assert.Equal(t, "PC-XLPE-11KV-3C-300", best.SKU)
	assert.Equal(t, 100.0, best.Score)
}

func TestMatchItemExtractorFailureDegrades(t *testing.T) {
	env := newTestEnv(t, true)

	extractor := mock.NewMockAttributeExtractor()
	extractor.ExtractAttributesFunc = func(ctx context.Context, text string) (map[core.AttributeKey]string, error) {
		return nil, errors.New("extractor unavailable")
	}
	pipeline := newTestPipeline(t, env, WithExtractor(extractor))

	item := exactItem()
	item.RawAttributes = nil
	ranked, err := pipeline.MatchItem(context.Background(), item)
	require.NoError(t, err)

	// No attributes at all: candidates score 0 and the item is not viable.
	require.NotNil(t, ranked.Best())
	assert.Equal(t, 0.0, ranked.Best().Score)
	assert.Equal(t, core.StatusNoMatch, ranked.Best().Status)
	assert.False(t, ranked.Viable)
}

// recordingMonitor captures monitor callbacks for assertions.
type recordingMonitor struct {
	started    bool
	issues     int
	normalized core.AttributeRecord
	hits       []core.SimilarityHit
	scored     int
	finished   *core.RankedMatches
}

func (m *recordingMonitor) Start(_ *core.RFPItem) { m.started = true }
func (m *recordingMonitor) NormalizationIssue(_ int, _ core.AttributeKey, _ string, _ error) {
	m.issues++
}
func (m *recordingMonitor) AfterNormalization(_ int, requirement core.AttributeRecord) {
	m.normalized = requirement
}
func (m *recordingMonitor) AfterRetrieval(_ int, hits []core.SimilarityHit) { m.hits = hits }
func (m *recordingMonitor) Scored(_ int, _ *core.MatchResult)               { m.scored++ }
func (m *recordingMonitor) Finish(ranked *core.RankedMatches)               { m.finished = ranked }

func TestMatchItemWithMonitor(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	monitor := &recordingMonitor{}
	item := exactItem()
	item.RawAttributes[core.KeyVoltage] = "TBD"
	ranked, err := pipeline.MatchItemWithMonitor(context.Background(), item, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 1, monitor.issues)
	assert.Len(t, monitor.normalized, 6)
	assert.NotEmpty(t, monitor.hits)
	assert.Equal(t, 3, monitor.scored)
	assert.Equal(t, ranked, monitor.finished)
}

func TestMatchBatch(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env, WithPoolSize(2))

	first := exactItem()
	second := exactItem()
	second.ItemID = 2
	second.RawAttributes[core.KeyConductorMaterial] = "Copper"

	results := pipeline.MatchBatch(context.Background(), []*core.RFPItem{first, second})
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ItemID)
	assert.Equal(t, 2, results[1].ItemID)
	assert.Equal(t, 100.0, results[0].Best().Score)
	assert.Less(t, results[1].Best().Score, 100.0)
}

func TestMatchBatchDegradesFailedItem(t *testing.T) {
	env := newTestEnv(t, true)
	pipeline := newTestPipeline(t, env)

	results := pipeline.MatchBatch(context.Background(), []*core.RFPItem{nil, exactItem()})
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Matches)
	require.NotNil(t, results[1].Best())
	assert.Equal(t, 100.0, results[1].Best().Score)
}
