package matching

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

// countingCache records cache traffic so tests can assert when the engine
// reads, writes, or skips it.
type countingCache struct {
	mu              sync.Mutex
	data            map[string]MatchResult
	gets, sets      int
	lastInvalidated string
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string]MatchResult)}
}

func (c *countingCache) Get(_ context.Context, key string) (MatchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	res, ok := c.data[key]
	return res, ok
}

func (c *countingCache) Set(_ context.Context, key string, res MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = res
}

func (c *countingCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastInvalidated = key
	delete(c.data, key)
}

// gatedDistance blocks every call until release is closed, counting calls.
type gatedDistance struct {
	release chan struct{}
	calls   atomic.Int64
}

func (g *gatedDistance) Distance(ctx context.Context, _, _ Geo, _ string) (DistanceResult, error) {
	g.calls.Add(1)
	select {
	case <-g.release:
	case <-ctx.Done():
		return DistanceResult{}, ctx.Err()
	}
	return DistanceResult{DistanceKm: 10, TravelTimeMin: 18}, nil
}

func scoringPair() (Candidate, Opportunity, *Organization) {
	cand := Candidate{
		ID:                     uuid.New(),
		Title:                  "Développeur Backend Go",
		Skills:                 []string{"go", "postgresql", "kubernetes"},
		ExperienceYears:        5,
		City:                   "Paris",
		Location:               &Geo{Lat: 48.8606, Lng: 2.3376},
		SalaryMin:              intp(50000),
		SalaryMax:              intp(60000),
		Motivations:            []string{"remuneration", "flexibilite"},
		PreferredCompanySizes:  []string{SizeSmall, SizeMedium},
		PreferredWorkModes:     []string{WorkModeHybrid, WorkModeRemoteFull},
		PreferredSectors:       []string{"software"},
		PreferredContractTypes: []string{ContractPermanent},
		NoticePeriodDays:       intp(30),
		MaxCommuteMinutes:      intp(60),
	}
	opp := Opportunity{
		ID:            uuid.New(),
		Title:         "Développeur Backend Go",
		Sector:        "software",
		Skills:        []string{"go", "postgresql", "redis"},
		ExperienceMin: intp(3),
		SalaryMin:     intp(48000),
		SalaryMax:     intp(58000),
		WorkMode:      WorkModeHybrid,
		City:          "Paris",
		Location:      &Geo{Lat: 48.8566, Lng: 2.3522},
		ContractType:  ContractPermanent,
		Urgency:       UrgencyWithinMonth,
		ProcessStage:  StageSourcing,
	}
	org := &Organization{
		ID:           uuid.New(),
		Name:         "Nexalead",
		SizeCategory: SizeSmall,
		Sector:       "software",
	}
	return cand, opp, org
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineRejectsInvalidWeights(t *testing.T) {
	bad := BaseWeights()
	bad[CriterionSemantic] += 0.5
	if _, err := NewEngine(Config{Weights: bad}); err == nil {
		t.Fatal("expected error for a weight table not summing to 1")
	}
}

func TestEngineScoreProducesFullBreakdown(t *testing.T) {
	e := newTestEngine(t, Config{})
	cand, opp, org := scoringPair()

	res, err := e.Score(context.Background(), cand, opp, org, Options{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if res.CandidateID != cand.ID || res.OpportunityID != opp.ID {
		t.Fatal("result does not carry the scored pair ids")
	}
	if len(res.Breakdown) != len(Criteria()) {
		t.Fatalf("breakdown has %d criteria, want %d", len(res.Breakdown), len(Criteria()))
	}
	for _, c := range Criteria() {
		b, ok := res.Breakdown[c]
		if !ok {
			t.Fatalf("breakdown missing %s", c)
		}
		if b.Score < 0 || b.Score > 1 {
			t.Fatalf("%s score %v out of range", c, b.Score)
		}
		if math.Abs(b.Contribution-b.Score*b.Weight) > 1e-9 {
			t.Fatalf("%s contribution %v != score*weight %v", c, b.Contribution, b.Score*b.Weight)
		}
	}

	if res.FinalScore <= 0 || res.FinalScore > 1 {
		t.Fatalf("final score %v out of range", res.FinalScore)
	}
	if res.Percentage != int(res.FinalScore*100+0.5) {
		t.Fatalf("percentage %d does not round final score %v", res.Percentage, res.FinalScore)
	}
	if res.Mode != ModeNormal {
		t.Fatalf("mode = %q, want normal", res.Mode)
	}
	if res.Performance.CacheUsed {
		t.Fatal("first computation must not be marked cached")
	}
	if res.Performance.CriteriaUsed != len(Criteria()) {
		t.Fatalf("criteria used = %d, want %d", res.Performance.CriteriaUsed, len(Criteria()))
	}
	// A well-filled pair like this one should land comfortably high.
	if res.FinalScore < 0.7 {
		t.Fatalf("final score %v unexpectedly low for a strong pair", res.FinalScore)
	}
}

func TestEngineScoreCacheHit(t *testing.T) {
	e := newTestEngine(t, Config{})
	cand, opp, org := scoringPair()
	ctx := context.Background()

	first, err := e.Score(ctx, cand, opp, org, Options{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	second, err := e.Score(ctx, cand, opp, org, Options{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !second.Performance.CacheUsed {
		t.Fatal("second call should be served from cache")
	}
	if second.Performance.CalculationTimeMs != 0 {
		t.Fatalf("cached result reports %vms computation", second.Performance.CalculationTimeMs)
	}
	if second.FinalScore != first.FinalScore {
		t.Fatalf("cached score %v differs from computed %v", second.FinalScore, first.FinalScore)
	}
}

func TestEngineConfigBoundsInternalCache(t *testing.T) {
	e := newTestEngine(t, Config{CacheMaxEntries: 1})
	cand, oppA, org := scoringPair()
	_, oppB, _ := scoringPair()
	ctx := context.Background()

	if _, err := e.Score(ctx, cand, oppA, org, Options{}); err != nil {
		t.Fatalf("Score A: %v", err)
	}
	if _, err := e.Score(ctx, cand, oppB, org, Options{}); err != nil {
		t.Fatalf("Score B: %v", err)
	}

	// With a single slot, scoring B evicted A.
	resA, err := e.Score(ctx, cand, oppA, org, Options{})
	if err != nil {
		t.Fatalf("Score A again: %v", err)
	}
	if resA.Performance.CacheUsed {
		t.Fatal("a one-entry cache should have evicted the first pair")
	}

	resA2, err := e.Score(ctx, cand, oppA, org, Options{})
	if err != nil {
		t.Fatalf("Score A third time: %v", err)
	}
	if !resA2.Performance.CacheUsed {
		t.Fatal("the most recent pair should be served from cache")
	}
}

func TestEngineForceRefreshBypassesCache(t *testing.T) {
	cache := newCountingCache()
	e := newTestEngine(t, Config{Cache: cache})
	cand, opp, org := scoringPair()
	ctx := context.Background()

	if _, err := e.Score(ctx, cand, opp, org, Options{}); err != nil {
		t.Fatalf("Score: %v", err)
	}
	getsBefore := cache.gets

	res, err := e.Score(ctx, cand, opp, org, Options{ForceRefresh: true})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Performance.CacheUsed {
		t.Fatal("forced refresh must recompute")
	}
	if cache.gets != getsBefore {
		t.Fatal("forced refresh should not read the cache")
	}
	if cache.sets != 2 {
		t.Fatalf("cache sets = %d, want 2 (refresh overwrites)", cache.sets)
	}
}

func TestEngineDynamicWeightingToggle(t *testing.T) {
	e := newTestEngine(t, Config{})
	cand, opp, org := scoringPair()
	ctx := context.Background()

	dynamic, err := e.Score(ctx, cand, opp, org, Options{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !dynamic.DynamicWeighting.Applied {
		t.Fatal("dynamic weighting should apply by default when motivations exist")
	}
	if len(dynamic.DynamicWeighting.Adjustments) == 0 {
		t.Fatal("expected adjustment audit entries")
	}
	if len(dynamic.DynamicWeighting.WeightComparison) != len(Criteria()) {
		t.Fatal("weight comparison should cover every criterion")
	}

	off := false
	static, err := e.Score(ctx, cand, opp, org, Options{DynamicWeighting: &off})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if static.DynamicWeighting.Applied {
		t.Fatal("dynamic weighting should be off")
	}
	if static.DynamicWeighting.WeightComparison != nil {
		t.Fatal("no weight comparison expected without reweighting")
	}
	if static.Performance.CacheUsed {
		t.Fatal("static and dynamic variants must not share a cache entry")
	}

	// remuneration sits at rank 1, so compensation must weigh more
	// in the dynamic run.
	dw := dynamic.Breakdown[CriterionCompensation].Weight
	sw := static.Breakdown[CriterionCompensation].Weight
	if dw <= sw {
		t.Fatalf("dynamic compensation weight %v not above static %v", dw, sw)
	}
}

func TestEngineCoalescesConcurrentCalls(t *testing.T) {
	provider := &gatedDistance{release: make(chan struct{})}
	e := newTestEngine(t, Config{Distance: provider, DistanceTimeout: 2 * time.Second})
	cand, opp, org := scoringPair()
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([]MatchResult, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Score(ctx, cand, opp, org, Options{})
		}(i)
	}

	// Let the goroutines pile up behind the gated provider, then open it.
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].FinalScore != results[0].FinalScore {
			t.Fatalf("caller %d got a different score", i)
		}
	}
	if n := provider.calls.Load(); n != 1 {
		t.Fatalf("distance provider called %d times, want 1", n)
	}
}

func TestEngineCancelledContextSkipsCacheWrite(t *testing.T) {
	cache := newCountingCache()
	e := newTestEngine(t, Config{Cache: cache})
	cand, opp, org := scoringPair()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Score(ctx, cand, opp, org, Options{}); err == nil {
		t.Fatal("expected error from a cancelled context")
	}
	if cache.sets != 0 {
		t.Fatalf("cancelled call wrote %d cache entries", cache.sets)
	}
}

func TestEngineInvalidate(t *testing.T) {
	cache := newCountingCache()
	e := newTestEngine(t, Config{Cache: cache})
	cand, opp, _ := scoringPair()
	ctx := context.Background()

	e.Invalidate(ctx, cand, opp, Options{})

	want := CacheKey(cand.ID.String(), opp.ID.String(), cand.Motivations, true)
	if cache.lastInvalidated != want {
		t.Fatalf("invalidated key %q, want %q", cache.lastInvalidated, want)
	}
}

func TestCombineSkipsZeroConfidence(t *testing.T) {
	weights := BaseWeights()
	results := []Result{
		{Criterion: CriterionSemantic, Score: 1.0, Confidence: 0.9},
		{Criterion: CriterionCompensation, Score: 0.0, Confidence: 0},
	}

	score, breakdown, used := combine(results, weights)
	if used != 1 {
		t.Fatalf("used = %d, want 1", used)
	}
	// The unusable criterion stays visible in the breakdown but does not
	// drag the weighted average.
	approx(t, score, 1.0, "score")
	if _, ok := breakdown[CriterionCompensation]; !ok {
		t.Fatal("unusable criterion missing from breakdown")
	}
}

func TestCombineEmptyUsableSet(t *testing.T) {
	score, _, used := combine([]Result{
		{Criterion: CriterionSemantic, Score: 0.8, Confidence: 0},
	}, BaseWeights())
	if used != 0 || score != 0 {
		t.Fatalf("score=%v used=%d, want 0/0", score, used)
	}
}

func TestQualityLevels(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.95, QualityExcellent},
		{0.90, QualityExcellent},
		{0.85, QualityGood},
		{0.80, QualityGood},
		{0.75, QualityAcceptable},
		{0.70, QualityAcceptable},
		{0.69, QualityPoor},
		{0.10, QualityPoor},
	}
	for _, c := range cases {
		if got := qualityLevel(c.score); got != c.want {
			t.Fatalf("qualityLevel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
