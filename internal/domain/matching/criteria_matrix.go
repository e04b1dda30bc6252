package matching

import (
	"context"
	"fmt"
)

// The five small category evaluators share one shape: a compatibility-matrix
// lookup between an enumerated preference on the candidate side and an
// enumerated attribute on the opportunity side. When no matrix entry exists
// the documented default of 0.5 applies.

const matrixDefaultScore = 0.5

// ---- company size ----

type companySizeEvaluator struct{}

func (companySizeEvaluator) Criterion() Criterion { return CriterionCompanySize }

var companySizeMatrix = map[string]map[string]float64{
	SizeMicro:      {SizeMicro: 1.0, SizeSmall: 0.8, SizeMedium: 0.5, SizeLarge: 0.3, SizeEnterprise: 0.2},
	SizeSmall:      {SizeMicro: 0.8, SizeSmall: 1.0, SizeMedium: 0.8, SizeLarge: 0.5, SizeEnterprise: 0.3},
	SizeMedium:     {SizeMicro: 0.5, SizeSmall: 0.8, SizeMedium: 1.0, SizeLarge: 0.8, SizeEnterprise: 0.6},
	SizeLarge:      {SizeMicro: 0.3, SizeSmall: 0.5, SizeMedium: 0.8, SizeLarge: 1.0, SizeEnterprise: 0.9},
	SizeEnterprise: {SizeMicro: 0.2, SizeSmall: 0.3, SizeMedium: 0.6, SizeLarge: 0.9, SizeEnterprise: 1.0},
}

func (companySizeEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	if in.Organization == nil || in.Organization.SizeCategory == "" {
		return Result{}, fmt.Errorf("%w: organization size", ErrMissingField)
	}
	prefs := in.Candidate.PreferredCompanySizes
	if len(prefs) == 0 {
		return Result{
			Criterion:  CriterionCompanySize,
			Score:      matrixDefaultScore,
			Confidence: 0.5,
			Detail:     "no size preference declared",
		}, nil
	}

	actual := normalizeKey(in.Organization.SizeCategory)
	best := 0.0
	for _, p := range prefs {
		if v, ok := companySizeMatrix[normalizeKey(p)][actual]; ok && v > best {
			best = v
		} else if !ok && matrixDefaultScore > best {
			best = matrixDefaultScore
		}
	}

	return Result{
		Criterion:  CriterionCompanySize,
		Score:      best,
		Confidence: 0.85,
		Detail:     fmt.Sprintf("organization size %s", actual),
	}, nil
}

// ---- work environment ----

type workEnvironmentEvaluator struct{}

func (workEnvironmentEvaluator) Criterion() Criterion { return CriterionWorkEnvironment }

var workModeMatrix = map[string]map[string]float64{
	WorkModeOnSite:     {WorkModeOnSite: 1.0, WorkModeHybrid: 0.7, WorkModeRemoteFull: 0.4},
	WorkModeHybrid:     {WorkModeOnSite: 0.7, WorkModeHybrid: 1.0, WorkModeRemoteFull: 0.7},
	WorkModeRemoteFull: {WorkModeOnSite: 0.2, WorkModeHybrid: 0.6, WorkModeRemoteFull: 1.0},
}

func (workEnvironmentEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	if in.Opportunity.WorkMode == "" {
		return Result{}, fmt.Errorf("%w: opportunity work mode", ErrMissingField)
	}
	prefs := in.Candidate.PreferredWorkModes
	if len(prefs) == 0 {
		return Result{
			Criterion:  CriterionWorkEnvironment,
			Score:      matrixDefaultScore,
			Confidence: 0.5,
			Detail:     "no work mode preference declared",
		}, nil
	}

	actual := normalizeKey(in.Opportunity.WorkMode)
	best := 0.0
	for _, p := range prefs {
		if v, ok := workModeMatrix[normalizeKey(p)][actual]; ok && v > best {
			best = v
		} else if !ok && matrixDefaultScore > best {
			best = matrixDefaultScore
		}
	}

	return Result{
		Criterion:  CriterionWorkEnvironment,
		Score:      best,
		Confidence: 0.9,
		Detail:     fmt.Sprintf("opportunity is %s", actual),
	}, nil
}

// ---- industry ----

type industryEvaluator struct{}

func (industryEvaluator) Criterion() Criterion { return CriterionIndustry }

func (industryEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	sector := normalizeKey(in.Opportunity.Sector)
	if sector == "" && in.Organization != nil {
		sector = normalizeKey(in.Organization.Sector)
	}
	if sector == "" {
		return Result{}, fmt.Errorf("%w: opportunity sector", ErrMissingField)
	}

	prefs := in.Candidate.PreferredSectors
	if len(prefs) == 0 {
		return Result{
			Criterion:  CriterionIndustry,
			Score:      matrixDefaultScore,
			Confidence: 0.5,
			Detail:     "no sector preference declared",
		}, nil
	}

	score := 0.35
	if containsFold(prefs, sector) {
		score = 1.0
	} else {
	related:
		for _, p := range prefs {
			for _, rel := range relatedSectors[normalizeKey(p)] {
				if rel == sector {
					score = 0.7
					break related
				}
			}
		}
	}

	return Result{
		Criterion:  CriterionIndustry,
		Score:      score,
		Confidence: 0.8,
		Detail:     fmt.Sprintf("sector %s", sector),
	}, nil
}

// ---- availability ----

type availabilityEvaluator struct{}

func (availabilityEvaluator) Criterion() Criterion { return CriterionAvailability }

// Candidate availability buckets derived from notice period / start date.
const (
	availNow   = "now"
	availSoon  = "soon"
	availLater = "later"
)

var availabilityMatrix = map[string]map[string]float64{
	UrgencyImmediate:   {availNow: 1.0, availSoon: 0.6, availLater: 0.25},
	UrgencyWithinMonth: {availNow: 1.0, availSoon: 0.9, availLater: 0.5},
	UrgencyFlexible:    {availNow: 0.9, availSoon: 0.9, availLater: 0.8},
}

func (availabilityEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	bucket, known := availabilityBucket(in)
	if !known {
		return Result{}, fmt.Errorf("%w: candidate availability", ErrMissingField)
	}

	urgency := normalizeKey(in.Opportunity.Urgency)
	row, ok := availabilityMatrix[urgency]
	if !ok {
		return Result{
			Criterion:  CriterionAvailability,
			Score:      matrixDefaultScore,
			Confidence: 0.5,
			Detail:     "opportunity urgency unknown",
		}, nil
	}

	return Result{
		Criterion:  CriterionAvailability,
		Score:      row[bucket],
		Confidence: 0.85,
		Detail:     fmt.Sprintf("candidate available %s, urgency %s", bucket, urgency),
	}, nil
}

func availabilityBucket(in Input) (string, bool) {
	days := -1
	if in.Candidate.NoticePeriodDays != nil {
		days = *in.Candidate.NoticePeriodDays
	} else if in.Candidate.AvailableFrom != nil {
		now := in.Now
		d := int(in.Candidate.AvailableFrom.Sub(now).Hours() / 24)
		if d < 0 {
			d = 0
		}
		days = d
	}
	if days < 0 {
		return "", false
	}
	switch {
	case days <= 7:
		return availNow, true
	case days <= 30:
		return availSoon, true
	default:
		return availLater, true
	}
}

// ---- contract type ----

type contractTypeEvaluator struct{}

func (contractTypeEvaluator) Criterion() Criterion { return CriterionContractType }

var contractMatrix = map[string]map[string]float64{
	ContractPermanent:  {ContractPermanent: 1.0, ContractFixedTerm: 0.4, ContractFreelance: 0.3, ContractInternship: 0.1, ContractApprentice: 0.1},
	ContractFixedTerm:  {ContractPermanent: 0.8, ContractFixedTerm: 1.0, ContractFreelance: 0.5, ContractInternship: 0.2, ContractApprentice: 0.2},
	ContractFreelance:  {ContractPermanent: 0.4, ContractFixedTerm: 0.5, ContractFreelance: 1.0, ContractInternship: 0.1, ContractApprentice: 0.1},
	ContractInternship: {ContractPermanent: 0.6, ContractFixedTerm: 0.6, ContractFreelance: 0.2, ContractInternship: 1.0, ContractApprentice: 0.8},
	ContractApprentice: {ContractPermanent: 0.6, ContractFixedTerm: 0.5, ContractFreelance: 0.2, ContractInternship: 0.8, ContractApprentice: 1.0},
}

func (contractTypeEvaluator) Evaluate(_ context.Context, in Input) (Result, error) {
	if in.Opportunity.ContractType == "" {
		return Result{}, fmt.Errorf("%w: opportunity contract type", ErrMissingField)
	}
	prefs := in.Candidate.PreferredContractTypes
	if len(prefs) == 0 {
		return Result{
			Criterion:  CriterionContractType,
			Score:      matrixDefaultScore,
			Confidence: 0.5,
			Detail:     "no contract preference declared",
		}, nil
	}

	actual := normalizeKey(in.Opportunity.ContractType)
	best := 0.0
	for _, p := range prefs {
		if v, ok := contractMatrix[normalizeKey(p)][actual]; ok && v > best {
			best = v
		} else if !ok && matrixDefaultScore > best {
			best = matrixDefaultScore
		}
	}

	return Result{
		Criterion:  CriterionContractType,
		Score:      best,
		Confidence: 0.9,
		Detail:     fmt.Sprintf("opportunity offers %s", actual),
	}, nil
}
