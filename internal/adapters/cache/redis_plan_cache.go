package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache keeps computed schedules in Redis with a TTL.
type RedisPlanCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{Client: client, TTL: ttl}
}

func (c *RedisPlanCache) GetSchedule(ctx context.Context, key string) (_ *domain.Schedule, err error) {
	defer timeGet(ctx, "plan.cache.redis.Get")(&err)

	data, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get plan cache: redis get %q: %w", key, err)
	}

	var schedule domain.Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("get plan cache: decode schedule: %w", err)
	}
	return &schedule, nil
}

func (c *RedisPlanCache) PutSchedule(ctx context.Context, key string, schedule *domain.Schedule) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("insert plan cache: encode schedule: %w", err)
	}

	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert plan cache: redis set %q: %w", key, err)
	}
	return nil
}
