package engine

import (
	"fmt"
	"math"

	"github.com/poiesic/specmatch/core"
)

// Engine computes deterministic weighted match scores between a normalized
// requirement and normalized candidate products. An Engine is immutable after
// construction and safe for concurrent use.
type Engine struct {
	weights    Weights
	thresholds Thresholds
}

// New creates a match engine. The weight table and thresholds are validated
// here; a malformed configuration is a fatal setup error.
func New(weights Weights, thresholds Thresholds) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		weights:    weights.clone(),
		thresholds: thresholds,
	}, nil
}

// NewDefault creates a match engine with the standard weights and thresholds.
func NewDefault() (*Engine, error) {
	return New(DefaultWeights(), DefaultThresholds())
}

// Thresholds returns the engine's classification thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Score compares a normalized requirement record against one candidate
// product and returns the complete match result.
//
// Attributes the requirement does not specify are excluded from the
// comparison entirely, so candidates are never penalized for extra
// specifications. The remaining weights are re-normalized: the overall score
// is 100 times the weighted sub-score sum divided by the included weight
// mass. When no attribute can be compared the score is 0 and the result is
// classified no_match.
func (e *Engine) Score(requirement core.AttributeRecord, product *core.Product) core.MatchResult {
	result := core.MatchResult{
		SKU:         product.SKU,
		ProductName: product.Name,
	}

	var weightMass, weightedSum float64

	// Iterate the fixed key order so breakdowns are deterministic.
	for _, key := range core.AttributeKeys {
		weight, weighted := e.weights[key]
		if !weighted {
			continue
		}

		reqValue, reqPresent := requirement.Get(key)
		candValue, candPresent := product.Specs.Get(key)

		entry := core.AttributeScore{Key: key, Weight: weight}
		if reqPresent {
			v := reqValue
			entry.Requirement = &v
		}
		if candPresent {
			v := candValue
			entry.Candidate = &v
		}

		if !reqPresent {
			// Unrequested attribute: excluded from numerator and denominator.
			result.Breakdown = append(result.Breakdown, entry)
			continue
		}

		entry.Included = true
		weightMass += weight

		switch {
		case !candPresent:
			entry.Score = 0
			result.Deviations = append(result.Deviations,
				fmt.Sprintf("requirement %s=%s, candidate spec not available", key, reqValue.String()))
		default:
			entry.Score = subScore(key, reqValue, candValue)
			if entry.Score < 1 {
				result.Deviations = append(result.Deviations,
					fmt.Sprintf("requirement %s=%s, candidate has %s", key, reqValue.String(), candValue.String()))
			}
		}

		weightedSum += weight * entry.Score
		result.Breakdown = append(result.Breakdown, entry)
	}

	if weightMass > 0 {
		result.Score = 100 * weightedSum / weightMass
	}
	result.Status = e.thresholds.Classify(result.Score)
	if weightMass == 0 {
		result.Status = core.StatusNoMatch
	}

	return result
}

// subScore computes the per-attribute sub-score in [0,1] for two present
// values. Canonical equality scores 1. Unequal numeric values receive graded
// credit inversely proportional to relative deviation, rewarding near misses
// such as 295 sq.mm against a requested 300. Unequal categorical tokens
// score strictly 0.
func subScore(key core.AttributeKey, requirement, candidate core.Value) float64 {
	if requirement.Equal(candidate) {
		return 1
	}

	if core.IsNumericKey(key) &&
		requirement.Kind == core.KindNumber && candidate.Kind == core.KindNumber {
		if requirement.Number == 0 {
			return 0
		}
		deviation := math.Abs(requirement.Number-candidate.Number) / requirement.Number
		return clamp01(1 - deviation)
	}

	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
