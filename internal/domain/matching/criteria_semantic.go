package matching

import (
	"context"
	"fmt"
)

// semanticEvaluator blends title keyword overlap, sector proximity, skills
// overlap, and experience-level fit into one score.
type semanticEvaluator struct{}

func (semanticEvaluator) Criterion() Criterion { return CriterionSemantic }

const (
	semanticTitleShare      = 0.35
	semanticSkillsShare     = 0.30
	semanticSectorShare     = 0.20
	semanticExperienceShare = 0.15
)

func (semanticEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	opp := in.Opportunity
	cand := in.Candidate

	if opp.Title == "" {
		return Result{}, fmt.Errorf("%w: opportunity title", ErrMissingField)
	}

	signals := 0

	title := 0.0
	if cand.Title != "" {
		candTokens := tokenize(cand.Title)
		oppTokens := tokenize(opp.Title)
		title = (tokenOverlap(candTokens, oppTokens) + tokenOverlap(oppTokens, candTokens)) / 2
		signals++
	}

	skills := 0.5
	if len(opp.Skills) > 0 {
		if len(cand.Skills) > 0 {
			hits := 0
			for _, s := range opp.Skills {
				if containsFold(cand.Skills, s) {
					hits++
				}
			}
			skills = float64(hits) / float64(len(opp.Skills))
			signals++
		} else {
			skills = 0.3
		}
	}

	sector := sectorProximity(cand.PreferredSectors, opp.Sector, in.Organization)
	if opp.Sector != "" {
		signals++
	}

	experience := experienceFit(cand.ExperienceYears, opp.ExperienceMin, opp.ExperienceMax)
	if opp.ExperienceMin != nil || opp.ExperienceMax != nil {
		signals++
	}

	score := clamp01(semanticTitleShare*title +
		semanticSkillsShare*skills +
		semanticSectorShare*sector +
		semanticExperienceShare*experience)

	confidence := 0.5 + 0.125*float64(signals)
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Criterion:  CriterionSemantic,
		Score:      score,
		Confidence: confidence,
		Detail:     fmt.Sprintf("title=%.2f skills=%.2f sector=%.2f experience=%.2f", title, skills, sector, experience),
	}, nil
}

// relatedSectors groups sectors considered adjacent for proximity scoring.
var relatedSectors = map[string][]string{
	"software":   {"fintech", "e_commerce", "telecom", "consulting"},
	"fintech":    {"software", "banking", "insurance"},
	"banking":    {"fintech", "insurance", "consulting"},
	"insurance":  {"banking", "fintech"},
	"e_commerce": {"software", "retail", "logistics"},
	"retail":     {"e_commerce", "logistics"},
	"logistics":  {"retail", "e_commerce", "industry"},
	"industry":   {"logistics", "energy", "construction"},
	"energy":     {"industry", "environment"},
	"health":     {"pharma", "biotech"},
	"pharma":     {"health", "biotech"},
	"biotech":    {"health", "pharma"},
	"education":  {"nonprofit", "public_sector"},
	"nonprofit":  {"education", "environment"},
}

func sectorProximity(preferred []string, sector string, org *Organization) float64 {
	s := normalizeKey(sector)
	if s == "" && org != nil {
		s = normalizeKey(org.Sector)
	}
	if s == "" {
		return 0.5
	}
	if len(preferred) == 0 {
		return 0.5
	}
	if containsFold(preferred, s) {
		return 1.0
	}
	for _, p := range preferred {
		for _, rel := range relatedSectors[normalizeKey(p)] {
			if rel == s {
				return 0.7
			}
		}
	}
	return 0.3
}

func experienceFit(years int, min, max *int) float64 {
	if min == nil && max == nil {
		return 0.5
	}
	lo := 0
	if min != nil {
		lo = *min
	}
	if max != nil && years > *max {
		// Overqualification is a mild penalty only.
		over := years - *max
		if over > 5 {
			return 0.6
		}
		return 0.8
	}
	if years >= lo {
		return 1.0
	}
	if lo <= 0 {
		return 1.0
	}
	return clamp01(float64(years) / float64(lo))
}
