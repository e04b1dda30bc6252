package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Criterion identifies one of the eleven scored dimensions.
type Criterion string

const (
	CriterionSemantic        Criterion = "semantic"
	CriterionLocation        Criterion = "location"
	CriterionCompensation    Criterion = "compensation"
	CriterionMotivation      Criterion = "motivation"
	CriterionCompanySize     Criterion = "company_size"
	CriterionWorkEnvironment Criterion = "work_environment"
	CriterionIndustry        Criterion = "industry"
	CriterionAvailability    Criterion = "availability"
	CriterionContractType    Criterion = "contract_type"
	CriterionListenReasons   Criterion = "listen_reasons"
	CriterionProcessPosition Criterion = "process_position"
)

// Criteria returns all criteria in canonical order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionSemantic,
		CriterionLocation,
		CriterionCompensation,
		CriterionMotivation,
		CriterionCompanySize,
		CriterionWorkEnvironment,
		CriterionIndustry,
		CriterionAvailability,
		CriterionContractType,
		CriterionListenReasons,
		CriterionProcessPosition,
	}
}

// Work modes recognized on both sides of the match.
const (
	WorkModeOnSite     = "on_site"
	WorkModeHybrid     = "hybrid"
	WorkModeRemoteFull = "remote_100"
)

// Contract types.
const (
	ContractPermanent  = "permanent"
	ContractFixedTerm  = "fixed_term"
	ContractFreelance  = "freelance"
	ContractInternship = "internship"
	ContractApprentice = "apprenticeship"
)

// Organization size categories.
const (
	SizeMicro      = "micro"
	SizeSmall      = "small"
	SizeMedium     = "medium"
	SizeLarge      = "large"
	SizeEnterprise = "enterprise"
)

// Urgency levels on an opportunity.
const (
	UrgencyImmediate   = "immediate"
	UrgencyWithinMonth = "within_month"
	UrgencyFlexible    = "flexible"
)

// Process stages an opportunity can be in.
const (
	StageSourcing     = "sourcing"
	StageScreening    = "screening"
	StageInterviewing = "interviewing"
	StageOffer        = "offer"
)

type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is the engine-facing view of a candidate profile. Callers map
// their own records into this shape; every optional field is a pointer or a
// slice that may be empty.
type Candidate struct {
	ID                     uuid.UUID
	Title                  string
	Skills                 []string
	ExperienceYears        int
	City                   string
	Location               *Geo
	SalaryMin              *int
	SalaryMax              *int
	Motivations            []string
	PreferredCompanySizes  []string
	PreferredWorkModes     []string
	PreferredSectors       []string
	PreferredContractTypes []string
	AvailableFrom          *time.Time
	NoticePeriodDays       *int
	MaxCommuteMinutes      *int
}

// Opportunity is the engine-facing view of a job posting.
type Opportunity struct {
	ID             uuid.UUID
	Title          string
	Sector         string
	Skills         []string
	ExperienceMin  *int
	ExperienceMax  *int
	SalaryMin      *int
	SalaryMax      *int
	WorkMode       string
	City           string
	Location       *Geo
	ContractType   string
	Urgency        string
	StartDate      *time.Time
	ApplicantCount *int
	ProcessStage   string
}

// Organization carries the size/sector context of the hiring company.
type Organization struct {
	ID           uuid.UUID
	Name         string
	SizeCategory string
	Sector       string
}

// Input bundles everything one scoring call evaluates. Organization may be nil.
type Input struct {
	Candidate    Candidate
	Opportunity  Opportunity
	Organization *Organization
	Now          time.Time
}

// Result is the outcome of one criterion evaluation. Score and Confidence are
// always within [0,1].
type Result struct {
	Criterion      Criterion `json:"criterion"`
	Score          float64   `json:"score"`
	Confidence     float64   `json:"confidence"`
	Fallback       bool      `json:"fallback"`
	Detail         string    `json:"detail,omitempty"`
	PenaltyReasons []string  `json:"penalty_reasons,omitempty"`
}

// Evaluator scores a single criterion. Implementations are pure except for
// the location evaluator, which may consult an external distance provider and
// is the only one allowed to block on I/O. A returned error means the primary
// computation could not run and the caller dispatches the criterion fallback.
type Evaluator interface {
	Criterion() Criterion
	Evaluate(ctx context.Context, in Input) (Result, error)
}

// DistanceProvider resolves travel distance/time between two points. The
// location evaluator is its only consumer; implementations must honor ctx.
type DistanceProvider interface {
	Distance(ctx context.Context, origin, destination Geo, mode string) (DistanceResult, error)
}

type DistanceResult struct {
	DistanceKm    float64
	TravelTimeMin float64
}

// Quality tiers for the final score.
const (
	QualityExcellent  = "excellent"
	QualityGood       = "good"
	QualityAcceptable = "acceptable"
	QualityPoor       = "poor"
)

// Modes of a MatchResult.
const (
	ModeNormal = "normal"
	ModeError  = "error"
)

// CriterionBreakdown is the per-criterion slice of a MatchResult.
type CriterionBreakdown struct {
	Score          float64  `json:"score"`
	Weight         float64  `json:"weight"`
	Contribution   float64  `json:"contribution"`
	Confidence     float64  `json:"confidence"`
	Fallback       bool     `json:"fallback"`
	Detail         string   `json:"detail,omitempty"`
	PenaltyReasons []string `json:"penalty_reasons,omitempty"`
}

type WeightDelta struct {
	Base      float64 `json:"base"`
	Effective float64 `json:"effective"`
}

type DynamicWeighting struct {
	Applied          bool                      `json:"applied"`
	Adjustments      []WeightAdjustment        `json:"adjustments"`
	WeightComparison map[Criterion]WeightDelta `json:"weight_comparison,omitempty"`
}

type Performance struct {
	CalculationTimeMs float64 `json:"calculation_time_ms"`
	CriteriaUsed      int     `json:"criteria_used"`
	CacheUsed         bool    `json:"cache_used"`
}

// MatchResult is the full output of one scoring call.
type MatchResult struct {
	CandidateID      uuid.UUID                        `json:"candidate_id"`
	OpportunityID    uuid.UUID                        `json:"opportunity_id"`
	FinalScore       float64                          `json:"final_score"`
	Percentage       int                              `json:"percentage"`
	QualityLevel     string                           `json:"quality_level"`
	Mode             string                           `json:"mode"`
	Breakdown        map[Criterion]CriterionBreakdown `json:"criteria_breakdown"`
	DynamicWeighting DynamicWeighting                 `json:"dynamic_weighting"`
	Insights         Insights                         `json:"insights"`
	Performance      Performance                      `json:"performance"`
}

// Options tune one Score call. DynamicWeighting defaults to enabled when nil.
type Options struct {
	ForceRefresh     bool
	DynamicWeighting *bool
}

func (o Options) dynamicWeightingEnabled() bool {
	if o.DynamicWeighting == nil {
		return true
	}
	return *o.DynamicWeighting
}

func qualityLevel(score float64) string {
	switch {
	case score >= 0.90:
		return QualityExcellent
	case score >= 0.80:
		return QualityGood
	case score >= 0.70:
		return QualityAcceptable
	default:
		return QualityPoor
	}
}
