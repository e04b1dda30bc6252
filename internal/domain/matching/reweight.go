package matching

import (
	"fmt"
	"math"
)

// Dynamic reweighting: the first three entries of a candidate's ranked
// motivation list boost the criteria they map to, and everything else is
// shrunk proportionally so the table keeps summing to 1.0.

const (
	maxEffectiveMotivations = 3
	maxCriterionWeight      = 0.35
)

var rankBoosts = map[int]float64{
	1: 0.08,
	2: 0.05,
	3: 0.03,
}

// motivationCriteria maps each declared motivation to the criteria it makes
// more important. Unknown motivation strings are skipped silently.
var motivationCriteria = map[string][]Criterion{
	"remuneration":           {CriterionCompensation},
	"localisation":           {CriterionLocation},
	"flexibilite":            {CriterionWorkEnvironment, CriterionContractType},
	"perspectives_evolution": {CriterionSemantic, CriterionCompanySize, CriterionIndustry},
	"equilibre_vie":          {CriterionWorkEnvironment, CriterionListenReasons},
	"stabilite":              {CriterionContractType, CriterionCompanySize},
	"sens_mission":           {CriterionIndustry, CriterionMotivation},
	"autonomie":              {CriterionWorkEnvironment, CriterionMotivation},
}

// validateMotivationTable is run once at engine construction: a motivation
// entry referencing an unknown criterion is a configuration error, not
// something to discover per call.
func validateMotivationTable(base WeightTable) error {
	for m, crits := range motivationCriteria {
		if len(crits) == 0 {
			return fmt.Errorf("%w: motivation %q maps to no criteria", ErrInvalidWeights, m)
		}
		for _, c := range crits {
			if _, ok := base[c]; !ok {
				return fmt.Errorf("%w: motivation %q references unknown criterion %q", ErrInvalidWeights, m, c)
			}
		}
	}
	return nil
}

// WeightAdjustment is one audit entry of the reweighting step.
type WeightAdjustment struct {
	Motivation    string    `json:"motivation"`
	Criterion     Criterion `json:"criterion"`
	Rank          int       `json:"rank"`
	Boost         float64   `json:"boost"`
	OldWeight     float64   `json:"old_weight"`
	NewWeight     float64   `json:"new_weight"`
	PercentChange float64   `json:"percent_change"`
}

// ReweightResult carries the adjusted table plus its audit trail.
type ReweightResult struct {
	Weights     WeightTable
	Adjustments []WeightAdjustment
	Adjusted    bool
}

// AdjustWeights derives a motivation-biased weight table from base. base is
// never mutated and the function is deterministic. With no usable motivation
// the base table is returned as-is with Adjusted=false.
func AdjustWeights(base WeightTable, rankedMotivations []string) ReweightResult {
	adjusted := base.Clone()
	boosted := make(map[Criterion]bool)
	audits := make([]WeightAdjustment, 0, 4)

	limit := len(rankedMotivations)
	if limit > maxEffectiveMotivations {
		limit = maxEffectiveMotivations
	}

	for i := 0; i < limit; i++ {
		rank := i + 1
		motivation := normalizeKey(rankedMotivations[i])
		crits, ok := motivationCriteria[motivation]
		if !ok {
			continue
		}

		perCriterion := rankBoosts[rank] / float64(len(crits))
		for _, c := range crits {
			old := adjusted[c]
			next := old + perCriterion
			if next > maxCriterionWeight {
				next = maxCriterionWeight
			}
			if next == old {
				continue
			}
			adjusted[c] = next
			boosted[c] = true
			audits = append(audits, WeightAdjustment{
				Motivation: motivation,
				Criterion:  c,
				Rank:       rank,
				Boost:      next - old,
				OldWeight:  base[c],
			})
		}
	}

	if len(audits) == 0 {
		return ReweightResult{Weights: base.Clone(), Adjustments: []WeightAdjustment{}, Adjusted: false}
	}

	renormalize(adjusted, boosted)

	for i := range audits {
		c := audits[i].Criterion
		audits[i].NewWeight = adjusted[c]
		if audits[i].OldWeight > 0 {
			audits[i].PercentChange = (audits[i].NewWeight - audits[i].OldWeight) / audits[i].OldWeight * 100
		}
	}

	return ReweightResult{Weights: adjusted, Adjustments: audits, Adjusted: true}
}

// renormalize restores the sum-to-one invariant after boosting. Non-boosted
// criteria absorb the excess proportionally; when every criterion was boosted
// the whole table is scaled instead. A final rounding correction lands on the
// largest weight so the sum is exact within floating tolerance.
func renormalize(w WeightTable, boosted map[Criterion]bool) {
	total := w.Sum()
	if math.Abs(total-1.0) > 1e-12 {
		boostedSum := 0.0
		nonBoostedSum := 0.0
		for _, c := range Criteria() {
			if boosted[c] {
				boostedSum += w[c]
			} else {
				nonBoostedSum += w[c]
			}
		}

		if nonBoostedSum > 0 && boostedSum < 1.0 {
			factor := (1.0 - boostedSum) / nonBoostedSum
			for _, c := range Criteria() {
				if !boosted[c] {
					w[c] *= factor
				}
			}
		} else {
			factor := 1.0 / total
			for _, c := range Criteria() {
				w[c] *= factor
			}
		}
	}

	if drift := 1.0 - w.Sum(); math.Abs(drift) > 1e-12 {
		w[w.largest()] += drift
	}
}
