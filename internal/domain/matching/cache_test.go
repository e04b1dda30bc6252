package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCacheKeyStability(t *testing.T) {
	k1 := CacheKey("cand-1", "opp-1", []string{"remuneration", "localisation"}, true)
	k2 := CacheKey("cand-1", "opp-1", []string{"Remuneration", " localisation "}, true)
	if k1 != k2 {
		t.Fatal("normalization should make these keys equal")
	}

	// Motivation order drives reweighting, so it must change the key.
	k3 := CacheKey("cand-1", "opp-1", []string{"localisation", "remuneration"}, true)
	if k1 == k3 {
		t.Fatal("motivation order should change the key")
	}

	k4 := CacheKey("cand-1", "opp-1", []string{"remuneration", "localisation"}, false)
	if k1 == k4 {
		t.Fatal("dynamic flag should change the key")
	}

	k5 := CacheKey("cand-2", "opp-1", []string{"remuneration", "localisation"}, true)
	if k1 == k5 {
		t.Fatal("candidate id should change the key")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	ctx := context.Background()

	want := MatchResult{CandidateID: uuid.New(), OpportunityID: uuid.New(), FinalScore: 0.87}
	c.Set(ctx, "k1", want)

	got, ok := c.Get(ctx, "k1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.FinalScore != want.FinalScore || got.CandidateID != want.CandidateID {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("unexpected hit for missing key")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10).(*memoryCache)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k1", MatchResult{FinalScore: 0.5})

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "k1"); !ok {
		t.Fatal("entry should still be fresh")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, "k1"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), MatchResult{FinalScore: float64(i)})
	}

	// Touch k0 so k1 becomes the eviction candidate.
	if _, ok := c.Get(ctx, "k0"); !ok {
		t.Fatal("expected hit on k0")
	}

	c.Set(ctx, "k3", MatchResult{FinalScore: 3})

	if _, ok := c.Get(ctx, "k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	for _, k := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(ctx, k); !ok {
			t.Fatalf("%s should survive eviction", k)
		}
	}
}

func TestMemoryCacheIsolatesStoredState(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	ctx := context.Background()

	stored := MatchResult{
		FinalScore: 0.8,
		Breakdown: map[Criterion]CriterionBreakdown{
			CriterionListenReasons: {Score: 0.75, PenaltyReasons: []string{"salary_mismatch"}},
		},
		Insights: Insights{Recommendations: []string{"original"}},
	}
	c.Set(ctx, "k1", stored)

	// Mutating the value passed to Set must not reach the cache.
	stored.Breakdown[CriterionListenReasons] = CriterionBreakdown{Score: 0}
	stored.Insights.Recommendations[0] = "tampered"

	got, ok := c.Get(ctx, "k1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Breakdown[CriterionListenReasons].Score != 0.75 {
		t.Fatal("cached breakdown shares state with the caller's map")
	}
	if got.Insights.Recommendations[0] != "original" {
		t.Fatal("cached insights share state with the caller's slice")
	}

	// Mutating what Get returned must not corrupt the entry either.
	got.Breakdown[CriterionListenReasons] = CriterionBreakdown{Score: 0}
	got.Insights.Recommendations[0] = "tampered"

	again, ok := c.Get(ctx, "k1")
	if !ok {
		t.Fatal("expected second cache hit")
	}
	if again.Breakdown[CriterionListenReasons].Score != 0.75 {
		t.Fatal("a mutated Get result corrupted the cached breakdown")
	}
	if len(again.Breakdown[CriterionListenReasons].PenaltyReasons) != 1 || again.Breakdown[CriterionListenReasons].PenaltyReasons[0] != "salary_mismatch" {
		t.Fatal("penalty reasons were not deep-copied")
	}
	if again.Insights.Recommendations[0] != "original" {
		t.Fatal("a mutated Get result corrupted the cached insights")
	}
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)
	ctx := context.Background()

	c.Set(ctx, "k1", MatchResult{FinalScore: 0.5})
	c.Invalidate(ctx, "k1")
	if _, ok := c.Get(ctx, "k1"); ok {
		t.Fatal("entry should be gone after Invalidate")
	}
	// Invalidating an absent key is a no-op.
	c.Invalidate(ctx, "missing")
}
