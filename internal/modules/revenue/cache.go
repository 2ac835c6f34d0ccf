// README: Short-TTL redis cache for named-period dashboard stats.
package revenue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "revenue:stats:"

// Cache holds recently computed named-period stats. Dashboard aggregates
// tolerate staleness of up to one write, so a short TTL is enough. Any redis
// failure degrades to a recompute.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, p Period) (*PeriodStats, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	raw, err := c.redis.Get(ctx, cacheKeyPrefix+string(p)).Bytes()
	if err != nil {
		return nil, false
	}
	var st PeriodStats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false
	}
	return &st, true
}

func (c *Cache) Set(ctx context.Context, p Period, st *PeriodStats) {
	if c == nil || c.redis == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, cacheKeyPrefix+string(p), raw, c.ttl).Err()
}
