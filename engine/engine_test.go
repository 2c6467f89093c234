package engine

import (
	"math"
	"testing"

	"github.com/poiesic/specmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRequirement() core.AttributeRecord {
	return core.AttributeRecord{
		core.KeyVoltage:           core.Number(11000),
		core.KeyConductorMaterial: core.Token("aluminum"),
		core.KeyCrossSection:      core.Number(300),
		core.KeyCoreCount:         core.Number(3),
		core.KeyInsulation:        core.Token("xlpe"),
		core.KeyArmouring:         core.Token("gi_strip"),
		core.KeySheathing:         core.Token("pvc"),
	}
}

func productWithSpecs(sku string, specs core.AttributeRecord) *core.Product {
	return &core.Product{
		SKU:           sku,
		Name:          sku,
		DatasheetText: "datasheet",
		Specs:         specs,
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		e, err := NewDefault()
		require.NoError(t, err)
		assert.Equal(t, DefaultThresholds(), e.Thresholds())
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		weights := DefaultWeights()
		weights[core.KeyVoltage] = 0.5
		_, err := New(weights, DefaultThresholds())
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		weights := DefaultWeights()
		weights[core.KeyVoltage] = -0.25
		weights[core.KeySheathing] = 0.55
		_, err := New(weights, DefaultThresholds())
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("unknown attribute rejected", func(t *testing.T) {
		weights := DefaultWeights()
		weights[core.KeySheathing] = 0.01
		weights["colour"] = 0.04
		_, err := New(weights, DefaultThresholds())
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("empty weights rejected", func(t *testing.T) {
		_, err := New(Weights{}, DefaultThresholds())
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("NaN weight rejected", func(t *testing.T) {
		// NaN is neither negative nor does it disturb a sum comparison,
		// so it needs its own rejection.
		weights := DefaultWeights()
		weights[core.KeyVoltage] = math.NaN()
		_, err := New(weights, DefaultThresholds())
		assert.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("inverted thresholds rejected", func(t *testing.T) {
		_, err := New(DefaultWeights(), Thresholds{ExactMatch: 50, PartialMatch: 90})
		assert.ErrorIs(t, err, ErrInvalidThresholds)
	})

	t.Run("NaN threshold rejected", func(t *testing.T) {
		_, err := New(DefaultWeights(), Thresholds{ExactMatch: math.NaN(), PartialMatch: 50})
		assert.ErrorIs(t, err, ErrInvalidThresholds)
	})
}

func TestScoreIdenticalSpecs(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	result := e.Score(fullRequirement(), productWithSpecs("SKU-1", fullRequirement()))

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, core.StatusExactMatch, result.Status)
	assert.Empty(t, result.Deviations)
	for _, entry := range result.Breakdown {
		assert.True(t, entry.Included)
		assert.Equal(t, 1.0, entry.Score)
	}
}

func TestScoreConductorMismatch(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	specs := fullRequirement()
	specs[core.KeyConductorMaterial] = core.Token("copper")
	result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))

	// Conductor material carries weight 0.20, so the score drops to 80.
	assert.InDelta(t, 80.0, result.Score, 1e-9)
	assert.Equal(t, core.StatusPartialMatch, result.Status)
	assert.Len(t, result.Deviations, 1)
	assert.Contains(t, result.Deviations[0], "conductor_material")
}

func TestScoreAbsentRequirementAttribute(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	requirement := fullRequirement()
	delete(requirement, core.KeyCrossSection)
	result := e.Score(requirement, productWithSpecs("SKU-1", fullRequirement()))

	// Cross section is excluded from the weight mass; everything else is
	// exact, so the score is still 100 over the remaining weights.
	assert.InDelta(t, 100.0, result.Score, 1e-9)
	assert.Equal(t, core.StatusExactMatch, result.Status)

	for _, entry := range result.Breakdown {
		if entry.Key == core.KeyCrossSection {
			assert.False(t, entry.Included)
			assert.Nil(t, entry.Requirement)
			assert.NotNil(t, entry.Candidate)
		}
	}
}

func TestScoreCandidateMissingRequestedSpec(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	specs := fullRequirement()
	delete(specs, core.KeyArmouring)
	result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))

	// Armouring (weight 0.10) scores 0 but stays in the denominator.
	assert.InDelta(t, 90.0, result.Score, 1e-9)
	assert.Len(t, result.Deviations, 1)
	assert.Contains(t, result.Deviations[0], "armouring")
	assert.Contains(t, result.Deviations[0], "not available")
}

func TestScoreGradedNumeric(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	t.Run("near miss gets partial credit", func(t *testing.T) {
		specs := fullRequirement()
		specs[core.KeyCrossSection] = core.Number(295)
		result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))

		// Sub-score 1 - 5/300; weighted by 0.15.
		want := 100 * (0.85 + 0.15*(1-5.0/300.0))
		assert.InDelta(t, want, result.Score, 1e-9)
	})

	t.Run("large deviation clamps to zero", func(t *testing.T) {
		specs := fullRequirement()
		specs[core.KeyVoltage] = core.Number(33000)
		result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))

		// |11000-33000|/11000 = 2, clamped sub-score 0, weight 0.25 lost.
		assert.InDelta(t, 75.0, result.Score, 1e-9)
	})

	t.Run("sub-scores stay within bounds", func(t *testing.T) {
		specs := fullRequirement()
		specs[core.KeyCoreCount] = core.Number(12)
		result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))
		for _, entry := range result.Breakdown {
			assert.GreaterOrEqual(t, entry.Score, 0.0)
			assert.LessOrEqual(t, entry.Score, 1.0)
		}
	})
}

func TestScoreEmptyRequirement(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	result := e.Score(core.AttributeRecord{}, productWithSpecs("SKU-1", fullRequirement()))

	// No attribute can be compared: degenerate W=0 path.
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, core.StatusNoMatch, result.Status)
	for _, entry := range result.Breakdown {
		assert.False(t, entry.Included)
	}
}

func TestScoreCategoricalMismatchIsStrict(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	specs := fullRequirement()
	specs[core.KeyInsulation] = core.Token("pvc")
	result := e.Score(fullRequirement(), productWithSpecs("SKU-1", specs))

	// No compatibility table: unequal categorical tokens score exactly 0.
	assert.InDelta(t, 90.0, result.Score, 1e-9)
	for _, entry := range result.Breakdown {
		if entry.Key == core.KeyInsulation {
			assert.Equal(t, 0.0, entry.Score)
		}
	}
}

func TestClassify(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		score float64
		want  core.MatchStatus
	}{
		{100, core.StatusExactMatch},
		{90, core.StatusExactMatch}, // closed boundary
		{89.999, core.StatusPartialMatch},
		{50, core.StatusPartialMatch}, // closed boundary
		{49.999, core.StatusNoMatch},
		{0, core.StatusNoMatch},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, thresholds.Classify(tt.score), "score %v", tt.score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)

	specs := fullRequirement()
	specs[core.KeyConductorMaterial] = core.Token("copper")
	specs[core.KeyCrossSection] = core.Number(240)
	product := productWithSpecs("SKU-1", specs)

	first := e.Score(fullRequirement(), product)
	second := e.Score(fullRequirement(), product)
	assert.Equal(t, first, second)
}
