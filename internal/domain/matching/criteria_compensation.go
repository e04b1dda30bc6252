package matching

import (
	"context"
	"fmt"
)

// compensationEvaluator scores the overlap of the candidate's expected salary
// range against the opportunity's offered range. Intersecting ranges score by
// overlap ratio; disjoint ranges are penalized proportionally to the gap.
type compensationEvaluator struct{}

func (compensationEvaluator) Criterion() Criterion { return CriterionCompensation }

func (compensationEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	cMin, cMax, ok := salaryRange(in.Candidate.SalaryMin, in.Candidate.SalaryMax)
	if !ok {
		return Result{}, fmt.Errorf("%w: candidate salary expectation", ErrMissingField)
	}
	oMin, oMax, ok := salaryRange(in.Opportunity.SalaryMin, in.Opportunity.SalaryMax)
	if !ok {
		return Result{}, fmt.Errorf("%w: opportunity salary range", ErrMissingField)
	}

	low := maxInt(cMin, oMin)
	high := minInt(cMax, oMax)

	if high >= low {
		span := minInt(cMax-cMin, oMax-oMin)
		ratio := 1.0
		if span > 0 {
			ratio = float64(high-low) / float64(span)
		}
		// Any intersection is already a workable match.
		score := clamp01(0.6 + 0.4*ratio)
		return Result{
			Criterion:  CriterionCompensation,
			Score:      score,
			Confidence: 0.9,
			Detail:     fmt.Sprintf("ranges intersect, overlap=%d..%d", low, high),
		}, nil
	}

	// Disjoint: penalty proportional to the relative gap.
	gap := low - high
	ref := cMin
	if ref <= 0 {
		ref = oMax
	}
	rel := float64(gap) / float64(ref)
	score := clamp01(0.5 - rel*1.5)

	detail := "opportunity pays below expectation"
	if oMin > cMax {
		detail = "opportunity pays above expectation"
		// Paying more than asked is not a blocker.
		score = clamp01(0.8 - rel*0.5)
	}

	return Result{
		Criterion:  CriterionCompensation,
		Score:      score,
		Confidence: 0.85,
		Detail:     fmt.Sprintf("%s, gap=%d", detail, gap),
	}, nil
}

// salaryRange normalizes a possibly half-open range; a single bound is
// widened by 10% on the missing side.
func salaryRange(min, max *int) (int, int, bool) {
	switch {
	case min == nil && max == nil:
		return 0, 0, false
	case min == nil:
		return int(float64(*max) * 0.9), *max, true
	case max == nil:
		return *min, int(float64(*min) * 1.1), true
	default:
		lo, hi := *min, *max
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
