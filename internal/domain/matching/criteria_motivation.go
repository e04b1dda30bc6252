package matching

import (
	"context"
	"fmt"
)

// motivationEvaluator averages per-motivation attractiveness sub-scores
// evaluated against the opportunity's attributes. Only motivations the
// candidate actually declared participate; unknown strings are skipped.
type motivationEvaluator struct{}

func (motivationEvaluator) Criterion() Criterion { return CriterionMotivation }

func (motivationEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	if len(in.Candidate.Motivations) == 0 {
		return Result{}, fmt.Errorf("%w: candidate motivations", ErrMissingField)
	}

	sum := 0.0
	used := 0
	for _, m := range in.Candidate.Motivations {
		sub, ok := motivationAttractiveness(normalizeKey(m), in)
		if !ok {
			continue
		}
		sum += sub
		used++
	}

	if used == 0 {
		return Result{}, fmt.Errorf("%w: no recognizable motivation", ErrMissingField)
	}

	confidence := 0.7 + 0.1*float64(used)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return Result{
		Criterion:  CriterionMotivation,
		Score:      clamp01(sum / float64(used)),
		Confidence: confidence,
		Detail:     fmt.Sprintf("%d motivation(s) evaluated", used),
	}, nil
}

// motivationAttractiveness maps one declared motivation to how attractive
// this opportunity looks through that lens.
func motivationAttractiveness(motivation string, in Input) (float64, bool) {
	opp := in.Opportunity
	org := in.Organization

	switch motivation {
	case "remuneration":
		return payAttractiveness(in), true

	case "perspectives_evolution":
		// Larger structures offer more visible growth paths.
		if org == nil {
			return 0.5, true
		}
		switch org.SizeCategory {
		case SizeEnterprise, SizeLarge:
			return 0.9, true
		case SizeMedium:
			return 0.7, true
		default:
			return 0.5, true
		}

	case "flexibilite":
		switch opp.WorkMode {
		case WorkModeRemoteFull:
			return 1.0, true
		case WorkModeHybrid:
			return 0.8, true
		default:
			return 0.3, true
		}

	case "equilibre_vie":
		score := 0.5
		if opp.WorkMode == WorkModeRemoteFull || opp.WorkMode == WorkModeHybrid {
			score += 0.3
		}
		if opp.Urgency == UrgencyFlexible {
			score += 0.1
		}
		return clamp01(score), true

	case "stabilite":
		score := 0.4
		if opp.ContractType == ContractPermanent {
			score = 0.8
		}
		if org != nil && (org.SizeCategory == SizeLarge || org.SizeCategory == SizeEnterprise) {
			score += 0.15
		}
		return clamp01(score), true

	case "sens_mission":
		sector := normalizeKey(opp.Sector)
		if sector == "" && org != nil {
			sector = normalizeKey(org.Sector)
		}
		switch sector {
		case "health", "education", "nonprofit", "environment", "public_sector":
			return 0.9, true
		case "":
			return 0.5, true
		default:
			return 0.4, true
		}

	case "autonomie":
		score := 0.4
		if opp.WorkMode == WorkModeRemoteFull {
			score += 0.3
		}
		if org != nil && (org.SizeCategory == SizeMicro || org.SizeCategory == SizeSmall) {
			score += 0.2
		}
		return clamp01(score), true

	case "localisation":
		if opp.WorkMode == WorkModeRemoteFull {
			return 1.0, true
		}
		if in.Candidate.City != "" && opp.City != "" && normalizeKey(in.Candidate.City) == normalizeKey(opp.City) {
			return 0.9, true
		}
		return 0.4, true
	}

	return 0, false
}

func payAttractiveness(in Input) float64 {
	oppMax := in.Opportunity.SalaryMax
	candMin := in.Candidate.SalaryMin
	if oppMax == nil || candMin == nil || *candMin <= 0 {
		return 0.5
	}
	ratio := float64(*oppMax) / float64(*candMin)
	switch {
	case ratio >= 1.2:
		return 1.0
	case ratio >= 1.0:
		return 0.8
	case ratio >= 0.9:
		return 0.5
	default:
		return 0.2
	}
}
