package matching

import (
	"context"
	"fmt"
)

// processPositionEvaluator blends opportunity urgency, candidate availability
// alignment, and a heuristic competitive-position factor: the earlier the
// hiring process and the thinner the applicant pool, the better the timing.
type processPositionEvaluator struct{}

func (processPositionEvaluator) Criterion() Criterion { return CriterionProcessPosition }

const (
	processTimingShare      = 0.4
	processCompetitionShare = 0.3
	processStageShare       = 0.3
)

func (processPositionEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	opp := in.Opportunity
	if opp.Urgency == "" && opp.ProcessStage == "" && opp.ApplicantCount == nil {
		return Result{}, fmt.Errorf("%w: opportunity process signals", ErrMissingField)
	}

	timing := timingScore(in)
	competition := competitionScore(opp.ApplicantCount)
	stage := stageScore(opp.ProcessStage)

	score := clamp01(processTimingShare*timing +
		processCompetitionShare*competition +
		processStageShare*stage)

	return Result{
		Criterion:  CriterionProcessPosition,
		Score:      score,
		Confidence: 0.7,
		Detail:     fmt.Sprintf("timing=%.2f competition=%.2f stage=%.2f", timing, competition, stage),
	}, nil
}

func timingScore(in Input) float64 {
	urgency := normalizeKey(in.Opportunity.Urgency)
	base := 0.5
	switch urgency {
	case UrgencyImmediate:
		base = 1.0
	case UrgencyWithinMonth:
		base = 0.7
	case UrgencyFlexible:
		base = 0.5
	}

	bucket, known := availabilityBucket(in)
	if !known {
		return base * 0.8
	}
	if row, ok := availabilityMatrix[urgency]; ok {
		return (base + row[bucket]) / 2
	}
	return base
}

func competitionScore(applicants *int) float64 {
	if applicants == nil {
		return 0.6
	}
	n := *applicants
	switch {
	case n <= 3:
		return 1.0
	case n <= 10:
		return 0.7
	case n <= 25:
		return 0.5
	default:
		return 0.3
	}
}

func stageScore(stage string) float64 {
	switch normalizeKey(stage) {
	case StageSourcing:
		return 1.0
	case StageScreening:
		return 0.8
	case StageInterviewing:
		return 0.55
	case StageOffer:
		return 0.25
	default:
		return 0.6
	}
}
