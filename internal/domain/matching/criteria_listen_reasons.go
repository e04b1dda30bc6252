package matching

import (
	"context"
	"fmt"
)

// listenReasonsEvaluator detects disqualifying anti-patterns. It starts at
// 1.0 and subtracts a fixed penalty per detected signal; every subtraction is
// recorded in PenaltyReasons so callers can explain the deduction.
type listenReasonsEvaluator struct{}

func (listenReasonsEvaluator) Criterion() Criterion { return CriterionListenReasons }

const (
	penaltySalaryMismatch   = 0.25
	penaltySalaryStretch    = 0.10
	penaltyWorkModeConflict = 0.20
	penaltyContractConflict = 0.10
	penaltyOverqualified    = 0.10
	penaltyNotAvailable     = 0.10
)

func (listenReasonsEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	score := 1.0
	reasons := make([]string, 0, 2)

	cand := in.Candidate
	opp := in.Opportunity

	if cand.SalaryMin != nil && opp.SalaryMax != nil && *opp.SalaryMax > 0 && *cand.SalaryMin > *opp.SalaryMax {
		excess := float64(*cand.SalaryMin-*opp.SalaryMax) / float64(*opp.SalaryMax)
		if excess > 0.20 {
			score -= penaltySalaryMismatch
			reasons = append(reasons, "salary_mismatch")
		} else {
			score -= penaltySalaryStretch
			reasons = append(reasons, "salary_stretch")
		}
	}

	if len(cand.PreferredWorkModes) > 0 && opp.WorkMode != "" {
		if onlyRemote(cand.PreferredWorkModes) && normalizeKey(opp.WorkMode) == WorkModeOnSite {
			score -= penaltyWorkModeConflict
			reasons = append(reasons, "work_mode_conflict")
		}
	}

	if len(cand.PreferredContractTypes) > 0 && opp.ContractType != "" && !containsFold(cand.PreferredContractTypes, opp.ContractType) {
		score -= penaltyContractConflict
		reasons = append(reasons, "contract_conflict")
	}

	if opp.ExperienceMax != nil && cand.ExperienceYears > *opp.ExperienceMax+5 {
		score -= penaltyOverqualified
		reasons = append(reasons, "overqualified")
	}

	if normalizeKey(opp.Urgency) == UrgencyImmediate {
		if bucket, known := availabilityBucket(in); known && bucket == availLater {
			score -= penaltyNotAvailable
			reasons = append(reasons, "availability_conflict")
		}
	}

	return Result{
		Criterion:      CriterionListenReasons,
		Score:          clamp01(score),
		Confidence:     0.9,
		Detail:         fmt.Sprintf("%d anti-pattern(s) detected", len(reasons)),
		PenaltyReasons: reasons,
	}, nil
}

func onlyRemote(modes []string) bool {
	for _, m := range modes {
		if normalizeKey(m) != WorkModeRemoteFull {
			return false
		}
	}
	return len(modes) > 0
}
