package matching

import (
	"math"
	"testing"
)

func TestBaseWeightsSumToOne(t *testing.T) {
	w := BaseWeights()
	if err := w.Validate(); err != nil {
		t.Fatalf("base weights invalid: %v", err)
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		t.Fatalf("base weights sum = %.4f, want 1.0", sum)
	}
	if len(w) != len(Criteria()) {
		t.Fatalf("base weights cover %d criteria, want %d", len(w), len(Criteria()))
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	missing := BaseWeights()
	delete(missing, CriterionSemantic)
	if err := missing.Validate(); err == nil {
		t.Fatal("expected error for missing criterion")
	}

	negative := BaseWeights()
	negative[CriterionSemantic] = -0.1
	if err := negative.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}

	skewed := BaseWeights()
	skewed[CriterionSemantic] += 0.5
	if err := skewed.Validate(); err == nil {
		t.Fatal("expected error for sum far from 1.0")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := BaseWeights()
	clone := base.Clone()
	clone[CriterionSemantic] = 0.9
	if base[CriterionSemantic] == 0.9 {
		t.Fatal("mutating the clone changed the original")
	}
}
