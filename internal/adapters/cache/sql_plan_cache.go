package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/ports"
)

// SQLPlanCache is a Postgres-backed cache for computed schedules.
type SQLPlanCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLPlanCache(db *sql.DB, ttl time.Duration) *SQLPlanCache {
	return &SQLPlanCache{DB: db, TTL: ttl}
}

// Fetch the cached schedule for key.
func (s *SQLPlanCache) GetSchedule(ctx context.Context, key string) (_ *domain.Schedule, err error) {
	defer timeGet(ctx, "plan.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("plan cache: db is nil")
	}

	q := `
	SELECT schedule, expires_at
	FROM plan_cache
	WHERE plan_key = $1;
	`

	var payload string
	var expiresAt int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get plan cache: query plan_cache table: %w", err)
	}

	return decodeEntry(payload, expiresAt)
}

// Store schedule under key, replacing any previous entry.
func (s *SQLPlanCache) PutSchedule(ctx context.Context, key string, schedule *domain.Schedule) error {
	if s.DB == nil {
		return errors.New("plan cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert plan cache: key must not be empty")
	}

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("insert plan cache: encode schedule: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO plan_cache (plan_key, schedule, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (plan_key) DO UPDATE
	SET schedule = EXCLUDED.schedule,
		expires_at = EXCLUDED.expires_at;
	`, key, string(payload), expiryFor(s.TTL))
	if err != nil {
		return fmt.Errorf("insert plan cache key=%q: %w", key, err)
	}

	return nil
}
