package cache

import (
	"context"
	"time"

	"talentmatch/internal/domain/matching"
)

// MatchResultCache keeps scored matches in redis so results survive process
// restarts and are shared across replicas. When redis is bypassed it stores
// nothing and the engine recomputes.
type MatchResultCache struct {
	redis *Redis
	ttl   time.Duration
}

func NewMatchResultCache(r *Redis, ttl time.Duration) *MatchResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MatchResultCache{redis: r, ttl: ttl}
}

// Available reports whether the backing redis connection is usable.
func (c *MatchResultCache) Available() bool {
	return c != nil && c.redis != nil && !c.redis.isUnavailable()
}

func (c *MatchResultCache) Get(ctx context.Context, key string) (matching.MatchResult, bool) {
	var out matching.MatchResult
	ok, err := c.redis.GetJSON(ctx, key, &out)
	if err != nil || !ok {
		return matching.MatchResult{}, false
	}
	return out, true
}

func (c *MatchResultCache) Set(ctx context.Context, key string, result matching.MatchResult) {
	_ = c.redis.SetJSON(ctx, key, result, c.ttl)
}

func (c *MatchResultCache) Invalidate(ctx context.Context, key string) {
	_ = c.redis.Delete(ctx, key)
}
