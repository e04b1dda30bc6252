package matching

import (
	"fmt"
	"strings"
)

// Fallback computations: one simpler, lower-confidence estimate per criterion,
// dispatched when the primary evaluator returns an error or panics. Fallbacks
// are pure, never fail, and always flag their result.

type fallbackFunc func(in Input) Result

var fallbacks = map[Criterion]fallbackFunc{
	CriterionSemantic:        fallbackSemantic,
	CriterionLocation:        fallbackLocation,
	CriterionCompensation:    fallbackCompensation,
	CriterionMotivation:      fallbackNeutral(CriterionMotivation, 0.3),
	CriterionCompanySize:     fallbackNeutral(CriterionCompanySize, 0.4),
	CriterionWorkEnvironment: fallbackNeutral(CriterionWorkEnvironment, 0.4),
	CriterionIndustry:        fallbackNeutral(CriterionIndustry, 0.4),
	CriterionAvailability:    fallbackNeutral(CriterionAvailability, 0.4),
	CriterionContractType:    fallbackNeutral(CriterionContractType, 0.4),
	CriterionListenReasons:   fallbackListenReasons,
	CriterionProcessPosition: fallbackNeutral(CriterionProcessPosition, 0.3),
}

// resolveFallback returns the degraded estimate for one criterion.
func resolveFallback(c Criterion, in Input) Result {
	if fn, ok := fallbacks[c]; ok {
		return fn(in)
	}
	r := fallbackNeutral(c, 0.2)(in)
	return r
}

func fallbackNeutral(c Criterion, confidence float64) fallbackFunc {
	return func(Input) Result {
		return Result{
			Criterion:  c,
			Score:      0.5,
			Confidence: confidence,
			Fallback:   true,
			Detail:     "neutral fallback, insufficient data",
		}
	}
}

// fallbackSemantic replaces full semantic analysis with a sector/title
// substring match.
func fallbackSemantic(in Input) Result {
	score := 0.4
	detail := "substring fallback, no overlap"

	oppTitle := strings.ToLower(in.Opportunity.Title)
	candTitle := strings.ToLower(in.Candidate.Title)
	if candTitle != "" && oppTitle != "" &&
		(strings.Contains(oppTitle, candTitle) || strings.Contains(candTitle, oppTitle)) {
		score = 0.75
		detail = "title substring match"
	} else if in.Opportunity.Sector != "" && containsFold(in.Candidate.PreferredSectors, in.Opportunity.Sector) {
		score = 0.65
		detail = "sector match"
	}

	return Result{
		Criterion:  CriterionSemantic,
		Score:      score,
		Confidence: 0.35,
		Fallback:   true,
		Detail:     detail,
	}
}

// fallbackLocation relies on pure geometry or city equality; it never calls
// the distance provider.
func fallbackLocation(in Input) Result {
	if in.Opportunity.WorkMode == WorkModeRemoteFull {
		return Result{
			Criterion:  CriterionLocation,
			Score:      1.0,
			Confidence: 1.0,
			Fallback:   true,
			Detail:     "fully remote",
		}
	}

	if in.Candidate.Location != nil && in.Opportunity.Location != nil {
		km := haversineKm(*in.Candidate.Location, *in.Opportunity.Location)
		score := commuteScore(km*1.4, commuteMaxMin)
		return Result{
			Criterion:  CriterionLocation,
			Score:      score,
			Confidence: 0.5,
			Fallback:   true,
			Detail:     fmt.Sprintf("geometric estimate distance=%.1fkm", km),
		}
	}

	score := 0.4
	if in.Candidate.City != "" && normalizeKey(in.Candidate.City) == normalizeKey(in.Opportunity.City) {
		score = 0.85
	}
	return Result{
		Criterion:  CriterionLocation,
		Score:      score,
		Confidence: 0.4,
		Fallback:   true,
		Detail:     "city comparison fallback",
	}
}

// fallbackCompensation compares midpoints instead of full range overlap.
func fallbackCompensation(in Input) Result {
	candMid := midpoint(in.Candidate.SalaryMin, in.Candidate.SalaryMax)
	oppMid := midpoint(in.Opportunity.SalaryMin, in.Opportunity.SalaryMax)
	if candMid <= 0 || oppMid <= 0 {
		return Result{
			Criterion:  CriterionCompensation,
			Score:      0.5,
			Confidence: 0.3,
			Fallback:   true,
			Detail:     "no salary data",
		}
	}

	ratio := float64(oppMid) / float64(candMid)
	if ratio > 1 {
		ratio = 1
	}
	return Result{
		Criterion:  CriterionCompensation,
		Score:      clamp01(ratio),
		Confidence: 0.5,
		Fallback:   true,
		Detail:     "midpoint comparison",
	}
}

// fallbackListenReasons keeps the single strongest anti-pattern check.
func fallbackListenReasons(in Input) Result {
	score := 0.9
	var reasons []string
	if in.Candidate.SalaryMin != nil && in.Opportunity.SalaryMax != nil &&
		*in.Opportunity.SalaryMax > 0 && *in.Candidate.SalaryMin > *in.Opportunity.SalaryMax {
		score = 0.6
		reasons = []string{"salary_mismatch"}
	}
	return Result{
		Criterion:      CriterionListenReasons,
		Score:          score,
		Confidence:     0.4,
		Fallback:       true,
		Detail:         "salary check only",
		PenaltyReasons: reasons,
	}
}

func midpoint(min, max *int) int {
	switch {
	case min != nil && max != nil:
		return (*min + *max) / 2
	case min != nil:
		return *min
	case max != nil:
		return *max
	default:
		return 0
	}
}
