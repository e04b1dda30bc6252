package matching

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// ResultCache memoizes full match results by derived key. Implementations
// must be safe for concurrent use and must not hand callers state shared
// with stored entries; the engine guarantees a result is either cached whole
// or not at all.
type ResultCache interface {
	Get(ctx context.Context, key string) (MatchResult, bool)
	Set(ctx context.Context, key string, result MatchResult)
	Invalidate(ctx context.Context, key string)
}

type cacheKeyInput struct {
	CandidateID   string   `json:"candidate_id"`
	OpportunityID string   `json:"opportunity_id"`
	Motivations   []string `json:"motivations"`
	Dynamic       bool     `json:"dynamic"`
}

// CacheKey derives the stable identity of one scoring pair. Motivation order
// matters (it drives the reweighting), so the ranked list is normalized but
// not sorted.
func CacheKey(candidateID, opportunityID string, motivations []string, dynamic bool) string {
	norm := make([]string, 0, len(motivations))
	for _, m := range motivations {
		m = normalizeKey(m)
		if m == "" {
			continue
		}
		norm = append(norm, m)
	}

	in := cacheKeyInput{
		CandidateID:   strings.TrimSpace(candidateID),
		OpportunityID: strings.TrimSpace(opportunityID),
		Motivations:   norm,
		Dynamic:       dynamic,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "match:score:" + hex.EncodeToString(sum[:])
}

// memoryCache is the default engine-owned cache: TTL expiry plus an LRU bound
// so an instance can never grow without limit.
type memoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type memoryCacheEntry struct {
	key      string
	result   MatchResult
	storedAt time.Time
}

const (
	defaultCacheTTL     = 10 * time.Minute
	defaultCacheEntries = 2048
)

// NewMemoryCache builds an in-process ResultCache. Non-positive arguments
// fall back to defaults.
func NewMemoryCache(ttl time.Duration, maxEntries int) ResultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &memoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (MatchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return MatchResult{}, false
	}
	entry := el.Value.(*memoryCacheEntry)
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.order.Remove(el)
		delete(c.entries, key)
		return MatchResult{}, false
	}
	c.order.MoveToFront(el)
	return cloneResult(entry.result), true
}

func (c *memoryCache) Set(_ context.Context, key string, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result = cloneResult(result)

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryCacheEntry)
		entry.result = result
		entry.storedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&memoryCacheEntry{key: key, result: result, storedAt: c.now()})
	c.entries[key] = el

	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryCacheEntry).key)
	}
}

// cloneResult detaches the maps and slices inside a MatchResult so cached
// entries never share mutable state with callers.
func cloneResult(r MatchResult) MatchResult {
	if r.Breakdown != nil {
		bd := make(map[Criterion]CriterionBreakdown, len(r.Breakdown))
		for c, b := range r.Breakdown {
			b.PenaltyReasons = append([]string(nil), b.PenaltyReasons...)
			bd[c] = b
		}
		r.Breakdown = bd
	}

	r.DynamicWeighting.Adjustments = append([]WeightAdjustment(nil), r.DynamicWeighting.Adjustments...)
	if r.DynamicWeighting.WeightComparison != nil {
		wc := make(map[Criterion]WeightDelta, len(r.DynamicWeighting.WeightComparison))
		for c, d := range r.DynamicWeighting.WeightComparison {
			wc[c] = d
		}
		r.DynamicWeighting.WeightComparison = wc
	}

	r.Insights.Strengths = append([]Insight(nil), r.Insights.Strengths...)
	r.Insights.Improvements = append([]Insight(nil), r.Insights.Improvements...)
	r.Insights.Recommendations = append([]string(nil), r.Insights.Recommendations...)

	return r
}

func (c *memoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}
}
