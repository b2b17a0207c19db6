package ports

import (
	"context"
	"errors"
	"visit-route-planner/internal/domain"
)

// ErrCacheMiss is returned by PlanCache.GetSchedule when no entry exists for a key.
var ErrCacheMiss = errors.New("plan cache: miss")

// Optional store for schedules keyed by a fingerprint of their inputs.
type PlanCache interface {
	GetSchedule(ctx context.Context, key string) (*domain.Schedule, error)
	PutSchedule(ctx context.Context, key string, schedule *domain.Schedule) error
}
