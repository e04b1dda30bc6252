package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/domain/opportunity"
	"talentmatch/internal/domain/organization"
	"talentmatch/internal/metrics"
	"talentmatch/internal/repository"
	"talentmatch/internal/ws"
)

var (
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrOpportunityNotFound = errors.New("opportunity not found")
)

type MatchUsecase interface {
	ScorePair(ctx context.Context, candidateID, opportunityID uuid.UUID, opts matching.Options) (matching.MatchResult, error)
	RankOpportunities(ctx context.Context, candidateID uuid.UUID, limit int, opts matching.Options) ([]matching.MatchResult, error)
	Invalidate(ctx context.Context, candidateID, opportunityID uuid.UUID) error
}

type Match struct {
	engine        *matching.Engine
	candidates    repository.CandidateRepository
	opportunities repository.OpportunityRepository
	organizations repository.OrganizationRepository
	metrics       *metrics.Manager
	logger        *zap.Logger
}

func NewMatchUsecase(
	engine *matching.Engine,
	candidates repository.CandidateRepository,
	opportunities repository.OpportunityRepository,
	organizations repository.OrganizationRepository,
	m *metrics.Manager,
	logger *zap.Logger,
) *Match {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Match{
		engine:        engine,
		candidates:    candidates,
		opportunities: opportunities,
		organizations: organizations,
		metrics:       m,
		logger:        logger,
	}
}

func (u *Match) ScorePair(ctx context.Context, candidateID, opportunityID uuid.UUID, opts matching.Options) (matching.MatchResult, error) {
	cand, opp, org, err := u.loadPair(ctx, candidateID, opportunityID)
	if err != nil {
		return matching.MatchResult{}, err
	}

	result, err := u.engine.Score(ctx, cand, opp, org, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return matching.MatchResult{}, err
		}
		u.metrics.ScoreRequest("error")
		u.logger.Error("scoring failed",
			zap.String("candidate_id", candidateID.String()),
			zap.String("opportunity_id", opportunityID.String()),
			zap.Error(err),
		)
		return matching.MatchResult{}, ErrInternal
	}

	u.observe(result)
	if !result.Performance.CacheUsed {
		ws.NotifyMatchComputed(result.CandidateID, result.OpportunityID, result.Percentage, result.QualityLevel)
	}
	return result, nil
}

// RankOpportunities scores the candidate against the freshest postings and
// returns them ordered best first.
func (u *Match) RankOpportunities(ctx context.Context, candidateID uuid.UUID, limit int, opts matching.Options) ([]matching.MatchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	candRec, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, ErrInternal
	}
	cand := candidateToEngine(candRec)

	recs, err := u.opportunities.ListRecent(ctx, limit, 0)
	if err != nil {
		return nil, ErrInternal
	}

	results := make([]matching.MatchResult, 0, len(recs))
	for _, rec := range recs {
		org, err := u.loadOrganization(ctx, rec.OrganizationID)
		if err != nil {
			return nil, err
		}

		result, err := u.engine.Score(ctx, cand, opportunityToEngine(rec), org, opts)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			u.logger.Warn("skipping opportunity, scoring failed",
				zap.String("opportunity_id", rec.ID.String()),
				zap.Error(err),
			)
			continue
		}
		u.observe(result)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results, nil
}

func (u *Match) Invalidate(ctx context.Context, candidateID, opportunityID uuid.UUID) error {
	cand, opp, _, err := u.loadPair(ctx, candidateID, opportunityID)
	if err != nil {
		return err
	}

	// Both key variants: reweighted and flat.
	dynamicOff := false
	u.engine.Invalidate(ctx, cand, opp, matching.Options{})
	u.engine.Invalidate(ctx, cand, opp, matching.Options{DynamicWeighting: &dynamicOff})
	return nil
}

func (u *Match) loadPair(ctx context.Context, candidateID, opportunityID uuid.UUID) (matching.Candidate, matching.Opportunity, *matching.Organization, error) {
	candRec, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return matching.Candidate{}, matching.Opportunity{}, nil, ErrCandidateNotFound
		}
		return matching.Candidate{}, matching.Opportunity{}, nil, ErrInternal
	}

	oppRec, err := u.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrOpportunityNotFound) {
			return matching.Candidate{}, matching.Opportunity{}, nil, ErrOpportunityNotFound
		}
		return matching.Candidate{}, matching.Opportunity{}, nil, ErrInternal
	}

	org, err := u.loadOrganization(ctx, oppRec.OrganizationID)
	if err != nil {
		return matching.Candidate{}, matching.Opportunity{}, nil, err
	}

	return candidateToEngine(candRec), opportunityToEngine(oppRec), org, nil
}

// loadOrganization tolerates a missing organization: the engine scores with
// reduced confidence instead of failing the call.
func (u *Match) loadOrganization(ctx context.Context, id *uuid.UUID) (*matching.Organization, error) {
	if id == nil || *id == uuid.Nil {
		return nil, nil
	}
	rec, err := u.organizations.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return nil, nil
		}
		return nil, ErrInternal
	}
	org := organizationToEngine(rec)
	return &org, nil
}

func (u *Match) observe(result matching.MatchResult) {
	if result.Performance.CacheUsed {
		u.metrics.CacheHit()
		u.metrics.ScoreRequest("cache_hit")
		return
	}
	u.metrics.CacheMiss()
	u.metrics.ScoreRequest("computed")
	u.metrics.ObserveScoreDuration(result.Performance.CalculationTimeMs / 1000.0)
	for criterion, entry := range result.Breakdown {
		if entry.Fallback {
			u.metrics.FallbackUsed(string(criterion))
		}
	}
}

func candidateToEngine(c candidate.Profile) matching.Candidate {
	out := matching.Candidate{
		ID:                     c.ID,
		Title:                  c.Headline,
		Skills:                 c.Skills,
		ExperienceYears:        c.ExperienceYears,
		City:                   c.City,
		SalaryMin:              c.SalaryMin,
		SalaryMax:              c.SalaryMax,
		Motivations:            c.Motivations,
		PreferredCompanySizes:  c.PreferredCompanySizes,
		PreferredWorkModes:     c.PreferredWorkModes,
		PreferredSectors:       c.PreferredSectors,
		PreferredContractTypes: c.PreferredContractTypes,
		AvailableFrom:          c.AvailableFrom,
		NoticePeriodDays:       c.NoticePeriodDays,
		MaxCommuteMinutes:      c.MaxCommuteMinutes,
	}
	if c.Lat != nil && c.Lng != nil {
		out.Location = &matching.Geo{Lat: *c.Lat, Lng: *c.Lng}
	}
	return out
}

func opportunityToEngine(o opportunity.Record) matching.Opportunity {
	out := matching.Opportunity{
		ID:             o.ID,
		Title:          o.Title,
		Sector:         o.Sector,
		Skills:         o.Skills,
		ExperienceMin:  o.ExperienceMin,
		ExperienceMax:  o.ExperienceMax,
		SalaryMin:      o.SalaryMin,
		SalaryMax:      o.SalaryMax,
		WorkMode:       o.WorkMode,
		City:           o.City,
		ContractType:   o.ContractType,
		Urgency:        o.Urgency,
		StartDate:      o.StartDate,
		ApplicantCount: o.ApplicantCount,
		ProcessStage:   o.ProcessStage,
	}
	if o.Lat != nil && o.Lng != nil {
		out.Location = &matching.Geo{Lat: *o.Lat, Lng: *o.Lng}
	}
	return out
}

func organizationToEngine(o organization.Record) matching.Organization {
	return matching.Organization{
		ID:           o.ID,
		Name:         o.Name,
		SizeCategory: o.SizeCategory,
		Sector:       o.Sector,
	}
}
