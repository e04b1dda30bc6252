package matching

import (
	"fmt"
	"math"
)

// WeightTable maps each criterion to its share of the final score. A valid
// table always sums to 1.0 within tolerance.
type WeightTable map[Criterion]float64

// Sum tolerance accepted by Validate.
const weightSumTolerance = 0.01

// BaseWeights returns the reference weight distribution.
func BaseWeights() WeightTable {
	return WeightTable{
		CriterionSemantic:        0.205,
		CriterionCompensation:    0.196,
		CriterionLocation:        0.161,
		CriterionMotivation:      0.107,
		CriterionCompanySize:     0.071,
		CriterionWorkEnvironment: 0.071,
		CriterionIndustry:        0.054,
		CriterionAvailability:    0.045,
		CriterionContractType:    0.045,
		CriterionListenReasons:   0.027,
		CriterionProcessPosition: 0.018,
	}
}

func (w WeightTable) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks the sum-to-one invariant, rejects negative weights, and
// requires every criterion to be present exactly once.
func (w WeightTable) Validate() error {
	if len(w) != len(Criteria()) {
		return fmt.Errorf("%w: expected %d criteria, got %d", ErrInvalidWeights, len(Criteria()), len(w))
	}
	for _, c := range Criteria() {
		v, ok := w[c]
		if !ok {
			return fmt.Errorf("%w: missing criterion %q", ErrInvalidWeights, c)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative weight %.4f for %q", ErrInvalidWeights, v, c)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, expected 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out
}

// largest returns the criterion currently carrying the biggest weight, using
// canonical order to break ties deterministically.
func (w WeightTable) largest() Criterion {
	best := Criteria()[0]
	for _, c := range Criteria() {
		if w[c] > w[best] {
			best = c
		}
	}
	return best
}
