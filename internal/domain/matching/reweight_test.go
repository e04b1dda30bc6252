package matching

import (
	"math"
	"testing"
)

func assertSumsToOne(t *testing.T, w WeightTable) {
	t.Helper()
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		t.Fatalf("adjusted weights sum = %.6f, want 1.0", sum)
	}
}

func TestAdjustWeightsBoostsTopMotivation(t *testing.T) {
	base := BaseWeights()
	res := AdjustWeights(base, []string{"remuneration"})

	if !res.Adjusted {
		t.Fatal("expected Adjusted=true")
	}
	assertSumsToOne(t, res.Weights)

	if res.Weights[CriterionCompensation] <= base[CriterionCompensation] {
		t.Fatalf("compensation weight %f not boosted over base %f",
			res.Weights[CriterionCompensation], base[CriterionCompensation])
	}
	// Non-boosted criteria shrink to absorb the boost.
	if res.Weights[CriterionSemantic] >= base[CriterionSemantic] {
		t.Fatalf("semantic weight %f should shrink below base %f",
			res.Weights[CriterionSemantic], base[CriterionSemantic])
	}
}

func TestAdjustWeightsRankOrderMatters(t *testing.T) {
	first := AdjustWeights(BaseWeights(), []string{"remuneration", "localisation"})
	second := AdjustWeights(BaseWeights(), []string{"localisation", "remuneration"})

	if first.Weights[CriterionCompensation] <= second.Weights[CriterionCompensation] {
		t.Fatal("rank 1 boost should outweigh rank 2 boost for compensation")
	}
	if second.Weights[CriterionLocation] <= first.Weights[CriterionLocation] {
		t.Fatal("rank 1 boost should outweigh rank 2 boost for location")
	}
}

func TestAdjustWeightsIgnoresBeyondThirdMotivation(t *testing.T) {
	three := AdjustWeights(BaseWeights(), []string{"remuneration", "localisation", "stabilite"})
	five := AdjustWeights(BaseWeights(), []string{"remuneration", "localisation", "stabilite", "autonomie", "sens_mission"})

	for _, c := range Criteria() {
		if math.Abs(three.Weights[c]-five.Weights[c]) > 1e-9 {
			t.Fatalf("criterion %s differs between 3 and 5 motivations: %f vs %f",
				c, three.Weights[c], five.Weights[c])
		}
	}
}

func TestAdjustWeightsNoUsableMotivation(t *testing.T) {
	base := BaseWeights()

	for _, motivations := range [][]string{nil, {}, {"unknown_key"}, {"", "  "}} {
		res := AdjustWeights(base, motivations)
		if res.Adjusted {
			t.Fatalf("motivations %v: expected Adjusted=false", motivations)
		}
		if len(res.Adjustments) != 0 {
			t.Fatalf("motivations %v: expected empty audit, got %d", motivations, len(res.Adjustments))
		}
		for _, c := range Criteria() {
			if res.Weights[c] != base[c] {
				t.Fatalf("motivations %v: weight for %s changed", motivations, c)
			}
		}
	}
}

func TestAdjustWeightsSkipsUnknownKeepsKnown(t *testing.T) {
	res := AdjustWeights(BaseWeights(), []string{"not_a_motivation", "remuneration"})
	if !res.Adjusted {
		t.Fatal("expected the known motivation to still apply")
	}
	assertSumsToOne(t, res.Weights)

	// remuneration sat at rank 2, so compensation gets the rank-2 boost.
	for _, a := range res.Adjustments {
		if a.Criterion == CriterionCompensation && a.Rank != 2 {
			t.Fatalf("compensation adjustment rank = %d, want 2", a.Rank)
		}
	}
}

func TestAdjustWeightsCapAndSumInvariant(t *testing.T) {
	// Push compensation near the cap.
	base := BaseWeights()
	base[CriterionCompensation] = 0.33
	base[CriterionSemantic] = 0.071
	if err := base.Validate(); err != nil {
		t.Fatalf("test table invalid: %v", err)
	}

	res := AdjustWeights(base, []string{"remuneration"})
	if !res.Adjusted {
		t.Fatal("expected adjustment")
	}
	if res.Weights[CriterionCompensation] > maxCriterionWeight+1e-9 {
		t.Fatalf("compensation weight %f exceeds cap %f", res.Weights[CriterionCompensation], maxCriterionWeight)
	}
	assertSumsToOne(t, res.Weights)
}

func TestAdjustWeightsDoesNotMutateBase(t *testing.T) {
	base := BaseWeights()
	snapshot := base.Clone()

	_ = AdjustWeights(base, []string{"remuneration", "flexibilite"})

	for _, c := range Criteria() {
		if base[c] != snapshot[c] {
			t.Fatalf("base table mutated at %s", c)
		}
	}
}

func TestAdjustWeightsAuditEntries(t *testing.T) {
	res := AdjustWeights(BaseWeights(), []string{"flexibilite"})
	if !res.Adjusted {
		t.Fatal("expected adjustment")
	}

	// flexibilite splits its rank-1 boost across two criteria.
	if len(res.Adjustments) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(res.Adjustments))
	}
	for _, a := range res.Adjustments {
		if a.Motivation != "flexibilite" {
			t.Fatalf("audit motivation = %q", a.Motivation)
		}
		if a.Rank != 1 {
			t.Fatalf("audit rank = %d, want 1", a.Rank)
		}
		if a.Boost <= 0 {
			t.Fatalf("audit boost = %f, want > 0", a.Boost)
		}
		if a.NewWeight == 0 || a.OldWeight == 0 {
			t.Fatal("audit weights not filled in")
		}
	}
}

func TestMotivationTableIsValid(t *testing.T) {
	if err := validateMotivationTable(BaseWeights()); err != nil {
		t.Fatalf("motivation table invalid: %v", err)
	}
}
