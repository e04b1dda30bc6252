package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/domain/opportunity"
	"talentmatch/internal/domain/organization"
	"talentmatch/internal/metrics"
	"talentmatch/internal/repository"
)

type fakeCandidateRepo struct {
	profiles map[uuid.UUID]candidate.Profile
}

func (f *fakeCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (candidate.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return candidate.Profile{}, repository.ErrCandidateNotFound
	}
	return p, nil
}

type fakeOpportunityRepo struct {
	records map[uuid.UUID]opportunity.Record
	recent  []opportunity.Record
}

func (f *fakeOpportunityRepo) GetByID(_ context.Context, id uuid.UUID) (opportunity.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return opportunity.Record{}, repository.ErrOpportunityNotFound
	}
	return r, nil
}

func (f *fakeOpportunityRepo) ListRecent(_ context.Context, limit, _ int) ([]opportunity.Record, error) {
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return f.recent[:limit], nil
}

func (f *fakeOpportunityRepo) Upsert(_ context.Context, rec opportunity.Record) (uuid.UUID, error) {
	return rec.ID, nil
}

type fakeOrganizationRepo struct {
	records map[uuid.UUID]organization.Record
}

func (f *fakeOrganizationRepo) GetByID(_ context.Context, id uuid.UUID) (organization.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return organization.Record{}, repository.ErrOrganizationNotFound
	}
	return r, nil
}

func (f *fakeOrganizationRepo) EnsureByName(_ context.Context, rec organization.Record) (uuid.UUID, error) {
	return rec.ID, nil
}

func intRef(v int) *int { return &v }

func matchFixture(t *testing.T) (*Match, uuid.UUID, uuid.UUID) {
	t.Helper()

	candID := uuid.New()
	oppID := uuid.New()
	orgID := uuid.New()

	cands := &fakeCandidateRepo{profiles: map[uuid.UUID]candidate.Profile{
		candID: {
			ID:                     candID,
			FullName:               "Camille Moreau",
			Headline:               "Développeuse Backend Go",
			Skills:                 []string{"go", "postgresql"},
			ExperienceYears:        5,
			City:                   "Paris",
			SalaryMin:              intRef(48000),
			SalaryMax:              intRef(58000),
			Motivations:            []string{"remuneration", "flexibilite"},
			PreferredWorkModes:     []string{"hybrid"},
			PreferredSectors:       []string{"software"},
			PreferredContractTypes: []string{"permanent"},
			NoticePeriodDays:       intRef(30),
		},
	}}

	oppRec := opportunity.Record{
		ID:             oppID,
		OrganizationID: &orgID,
		Title:          "Développeur Backend Go",
		Sector:         "software",
		Skills:         []string{"go", "postgresql", "redis"},
		SalaryMin:      intRef(47000),
		SalaryMax:      intRef(56000),
		WorkMode:       "hybrid",
		City:           "Paris",
		ContractType:   "permanent",
		Urgency:        "within_month",
		ProcessStage:   "sourcing",
	}
	opps := &fakeOpportunityRepo{
		records: map[uuid.UUID]opportunity.Record{oppID: oppRec},
		recent:  []opportunity.Record{oppRec},
	}

	orgs := &fakeOrganizationRepo{records: map[uuid.UUID]organization.Record{
		orgID: {ID: orgID, Name: "Nexalead", SizeCategory: "small", Sector: "software"},
	}}

	engine, err := matching.NewEngine(matching.Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	uc := NewMatchUsecase(engine, cands, opps, orgs, metrics.NewManager(), nil)
	return uc, candID, oppID
}

func TestScorePairSuccess(t *testing.T) {
	uc, candID, oppID := matchFixture(t)

	res, err := uc.ScorePair(context.Background(), candID, oppID, matching.Options{})
	if err != nil {
		t.Fatalf("ScorePair: %v", err)
	}
	if res.CandidateID != candID || res.OpportunityID != oppID {
		t.Fatal("result ids do not match the request")
	}
	if len(res.Breakdown) != len(matching.Criteria()) {
		t.Fatalf("breakdown covers %d criteria, want %d", len(res.Breakdown), len(matching.Criteria()))
	}
	if res.FinalScore <= 0 {
		t.Fatalf("final score %v, want > 0", res.FinalScore)
	}
}

func TestScorePairUnknownCandidate(t *testing.T) {
	uc, _, oppID := matchFixture(t)

	_, err := uc.ScorePair(context.Background(), uuid.New(), oppID, matching.Options{})
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("want ErrCandidateNotFound, got %v", err)
	}
}

func TestScorePairUnknownOpportunity(t *testing.T) {
	uc, candID, _ := matchFixture(t)

	_, err := uc.ScorePair(context.Background(), candID, uuid.New(), matching.Options{})
	if !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("want ErrOpportunityNotFound, got %v", err)
	}
}

func TestScorePairToleratesMissingOrganization(t *testing.T) {
	uc, candID, oppID := matchFixture(t)
	// Point the opportunity at an organization that does not exist.
	orphan := uuid.New()
	opps := uc.opportunities.(*fakeOpportunityRepo)
	rec := opps.records[oppID]
	rec.OrganizationID = &orphan
	opps.records[oppID] = rec

	res, err := uc.ScorePair(context.Background(), candID, oppID, matching.Options{})
	if err != nil {
		t.Fatalf("ScorePair: %v", err)
	}
	// Company-size scoring degrades to its fallback without an organization.
	if b, ok := res.Breakdown[matching.CriterionCompanySize]; !ok || !b.Fallback {
		t.Fatal("company size should fall back when the organization is missing")
	}
}

func TestRankOpportunitiesOrdersBestFirst(t *testing.T) {
	uc, candID, _ := matchFixture(t)
	opps := uc.opportunities.(*fakeOpportunityRepo)

	// Add a clearly worse posting.
	weakID := uuid.New()
	weak := opportunity.Record{
		ID:           weakID,
		Title:        "Comptable Senior",
		Sector:       "banking",
		Skills:       []string{"comptabilité", "sap"},
		SalaryMin:    intRef(30000),
		SalaryMax:    intRef(35000),
		WorkMode:     "on_site",
		City:         "Marseille",
		ContractType: "fixed_term",
		Urgency:      "flexible",
		ProcessStage: "offer",
	}
	opps.records[weakID] = weak
	opps.recent = append(opps.recent, weak)

	results, err := uc.RankOpportunities(context.Background(), candID, 10, matching.Options{})
	if err != nil {
		t.Fatalf("RankOpportunities: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].FinalScore < results[1].FinalScore {
		t.Fatal("results not ordered best first")
	}
	if results[0].OpportunityID == weakID {
		t.Fatal("the weak posting should not rank first")
	}
}

func TestRankOpportunitiesUnknownCandidate(t *testing.T) {
	uc, _, _ := matchFixture(t)

	_, err := uc.RankOpportunities(context.Background(), uuid.New(), 10, matching.Options{})
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("want ErrCandidateNotFound, got %v", err)
	}
}

func TestInvalidateUnknownPair(t *testing.T) {
	uc, candID, _ := matchFixture(t)

	if err := uc.Invalidate(context.Background(), candID, uuid.New()); !errors.Is(err, ErrOpportunityNotFound) {
		t.Fatalf("want ErrOpportunityNotFound, got %v", err)
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	uc, candID, oppID := matchFixture(t)
	ctx := context.Background()

	if _, err := uc.ScorePair(ctx, candID, oppID, matching.Options{}); err != nil {
		t.Fatalf("ScorePair: %v", err)
	}
	cached, err := uc.ScorePair(ctx, candID, oppID, matching.Options{})
	if err != nil {
		t.Fatalf("ScorePair: %v", err)
	}
	if !cached.Performance.CacheUsed {
		t.Fatal("second call should hit the cache")
	}

	if err := uc.Invalidate(ctx, candID, oppID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	fresh, err := uc.ScorePair(ctx, candID, oppID, matching.Options{})
	if err != nil {
		t.Fatalf("ScorePair: %v", err)
	}
	if fresh.Performance.CacheUsed {
		t.Fatal("call after invalidation should recompute")
	}
}
