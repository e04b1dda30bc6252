package matching

import (
	"fmt"
	"sort"
)

// Insight generation: strengths and improvements come straight from the
// per-criterion breakdown, recommendations from a fixed rule set. Output is
// deterministic for a given breakdown.

const (
	strengthThreshold    = 0.85
	improvementThreshold = 0.60
)

type Insight struct {
	Criterion    Criterion `json:"criterion"`
	Score        float64   `json:"score"`
	Contribution float64   `json:"contribution"`
	Message      string    `json:"message"`
}

type Insights struct {
	Strengths       []Insight `json:"strengths"`
	Improvements    []Insight `json:"improvements"`
	Recommendations []string  `json:"recommendations"`
}

var criterionLabels = map[Criterion]string{
	CriterionSemantic:        "profile/role fit",
	CriterionLocation:        "commute and location",
	CriterionCompensation:    "salary alignment",
	CriterionMotivation:      "motivation alignment",
	CriterionCompanySize:     "company size preference",
	CriterionWorkEnvironment: "work environment",
	CriterionIndustry:        "industry fit",
	CriterionAvailability:    "availability timing",
	CriterionContractType:    "contract type",
	CriterionListenReasons:   "deal-breaker signals",
	CriterionProcessPosition: "process timing",
}

func buildInsights(finalScore float64, breakdown map[Criterion]CriterionBreakdown) Insights {
	out := Insights{
		Strengths:       make([]Insight, 0, 3),
		Improvements:    make([]Insight, 0, 3),
		Recommendations: make([]string, 0, 3),
	}

	for _, c := range Criteria() {
		b, ok := breakdown[c]
		if !ok {
			continue
		}
		if b.Score >= strengthThreshold {
			out.Strengths = append(out.Strengths, Insight{
				Criterion:    c,
				Score:        b.Score,
				Contribution: b.Contribution,
				Message:      fmt.Sprintf("strong %s (%.0f%%)", criterionLabels[c], b.Score*100),
			})
		}
		if b.Score <= improvementThreshold {
			out.Improvements = append(out.Improvements, Insight{
				Criterion:    c,
				Score:        b.Score,
				Contribution: b.Contribution,
				Message:      fmt.Sprintf("weak %s (%.0f%%)", criterionLabels[c], b.Score*100),
			})
		}
	}

	// Strengths ranked by what they actually contribute; improvements by
	// severity, worst first.
	sort.SliceStable(out.Strengths, func(i, j int) bool {
		return out.Strengths[i].Contribution > out.Strengths[j].Contribution
	})
	sort.SliceStable(out.Improvements, func(i, j int) bool {
		return out.Improvements[i].Score < out.Improvements[j].Score
	})

	out.Recommendations = recommendations(finalScore, breakdown)
	return out
}

func recommendations(finalScore float64, breakdown map[Criterion]CriterionBreakdown) []string {
	recs := make([]string, 0, 3)

	score := func(c Criterion) (float64, bool) {
		b, ok := breakdown[c]
		return b.Score, ok
	}

	if avail, ok := score(CriterionAvailability); ok && finalScore >= 0.80 && avail <= 0.60 {
		recs = append(recs, "Strong match but tight timing: schedule the interview urgently and confirm the start date first.")
	}

	if comp, ok := score(CriterionCompensation); ok && comp <= 0.50 {
		recs = append(recs, "Salary ranges are far apart: align on compensation before investing in interviews.")
	}

	if loc, ok := score(CriterionLocation); ok && loc <= 0.40 {
		recs = append(recs, "Commute looks problematic: check whether hybrid or remote arrangements are possible.")
	}

	if b, ok := breakdown[CriterionListenReasons]; ok && len(b.PenaltyReasons) > 0 {
		recs = append(recs, "Deal-breaker signals detected: address them explicitly in the first conversation.")
	}

	fallbacks := 0
	for _, b := range breakdown {
		if b.Fallback {
			fallbacks++
		}
	}
	if fallbacks >= 3 {
		recs = append(recs, "Several criteria were estimated from incomplete data: complete the profiles to refine this score.")
	}

	if len(recs) == 0 {
		if finalScore >= 0.80 {
			recs = append(recs, "High-quality match: prioritize outreach to this candidate.")
		} else if finalScore < 0.50 {
			recs = append(recs, "Low overall fit: consider other opportunities for this candidate.")
		}
	}

	return recs
}
