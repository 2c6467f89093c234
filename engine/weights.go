package engine

import (
	"fmt"
	"math"

	"github.com/poiesic/specmatch/core"
)

// weightSumTolerance is the permitted floating-point drift when checking
// that a weight table sums to 1.0.
const weightSumTolerance = 0.01

// Weights maps each attribute key to its importance in the overall score.
// A valid table covers only known attribute keys, has no negative weights,
// and sums to 1.0 within tolerance.
type Weights map[core.AttributeKey]float64

// DefaultWeights returns the standard weight table for power cable matching.
// Voltage carries the most weight as the critical safety parameter.
func DefaultWeights() Weights {
	return Weights{
		core.KeyVoltage:           0.25,
		core.KeyConductorMaterial: 0.20,
		core.KeyCrossSection:      0.15,
		core.KeyCoreCount:         0.15,
		core.KeyInsulation:        0.10,
		core.KeyArmouring:         0.10,
		core.KeySheathing:         0.05,
	}
}

// Validate checks the weight table against the domain rules.
// Returns an error wrapping ErrInvalidWeights on any violation.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: table is empty", ErrInvalidWeights)
	}

	var sum float64
	for key, weight := range w {
		if !core.IsKnownKey(key) {
			return fmt.Errorf("%w: unknown attribute %q", ErrInvalidWeights, key)
		}
		// NaN compares false against everything, so it would slip past
		// both the negative check and the sum check below.
		if math.IsNaN(weight) {
			return fmt.Errorf("%w: attribute %q has NaN weight", ErrInvalidWeights, key)
		}
		if weight < 0 {
			return fmt.Errorf("%w: attribute %q has negative weight %v", ErrInvalidWeights, key, weight)
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %v", ErrInvalidWeights, sum)
	}

	return nil
}

// clone returns an independent copy of the weight table.
func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Thresholds holds the score boundaries for match classification.
// Scores at or above ExactMatch classify as exact_match; scores at or above
// PartialMatch classify as partial_match; everything below is no_match.
// Boundaries are closed: a score equal to a threshold takes the higher label.
type Thresholds struct {
	ExactMatch   float64
	PartialMatch float64
}

// DefaultThresholds returns the standard classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExactMatch:   90,
		PartialMatch: 50,
	}
}

// Validate checks that the thresholds are ordered and within [0,100].
func (t Thresholds) Validate() error {
	if math.IsNaN(t.ExactMatch) || math.IsNaN(t.PartialMatch) {
		return fmt.Errorf("%w: thresholds must not be NaN", ErrInvalidThresholds)
	}
	if t.PartialMatch < 0 || t.ExactMatch > 100 {
		return fmt.Errorf("%w: thresholds must lie in [0,100]", ErrInvalidThresholds)
	}
	if t.PartialMatch >= t.ExactMatch {
		return fmt.Errorf("%w: partial threshold %v must be below exact threshold %v",
			ErrInvalidThresholds, t.PartialMatch, t.ExactMatch)
	}
	return nil
}

// Classify maps an overall score onto its match status.
// The mapping is exhaustive: every score receives exactly one label.
func (t Thresholds) Classify(score float64) core.MatchStatus {
	switch {
	case score >= t.ExactMatch:
		return core.StatusExactMatch
	case score >= t.PartialMatch:
		return core.StatusPartialMatch
	default:
		return core.StatusNoMatch
	}
}
