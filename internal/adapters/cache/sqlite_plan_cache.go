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
	"visit-route-planner/internal/platform/obs"
	"visit-route-planner/internal/ports"
)

// SQLite backed cache for computed schedules, stored as JSON in plan_cache.
// Entries older than TTL are treated as misses; a zero TTL never expires.
type SqlitePlanCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSqlitePlanCache(db *sql.DB, ttl time.Duration) *SqlitePlanCache {
	return &SqlitePlanCache{DB: db, TTL: ttl}
}

// Fetch the cached schedule for key.
func (s *SqlitePlanCache) GetSchedule(ctx context.Context, key string) (_ *domain.Schedule, err error) {
	defer timeGet(ctx, "plan.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("plan cache: db is nil")
	}

	q := `
	SELECT schedule, expires_at
	FROM plan_cache
	WHERE plan_key = ?;
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
func (s *SqlitePlanCache) PutSchedule(ctx context.Context, key string, schedule *domain.Schedule) error {
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
	INSERT OR REPLACE INTO plan_cache (
		plan_key,
		schedule,
		expires_at
	)
	VALUES (?, ?, ?)
	`, key, string(payload), expiryFor(s.TTL))
	if err != nil {
		return fmt.Errorf("insert plan cache key=%q: %w", key, err)
	}

	return nil
}

// timeGet times a cache read; misses are logged without err.
func timeGet(ctx context.Context, name string) func(errp *error) {
	done := obs.Time(ctx, name)
	return func(errp *error) {
		if errp != nil && errors.Is(*errp, ports.ErrCacheMiss) {
			var none error
			done(&none)
			return
		}
		done(errp)
	}
}

// expiryFor returns the unix expiry for an entry written now, or 0 for no expiry.
func expiryFor(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).Unix()
}

func decodeEntry(payload string, expiresAt int64) (*domain.Schedule, error) {
	if expiresAt > 0 && time.Now().Unix() >= expiresAt {
		return nil, ports.ErrCacheMiss
	}

	var schedule domain.Schedule
	if err := json.Unmarshal([]byte(payload), &schedule); err != nil {
		return nil, fmt.Errorf("get plan cache: decode schedule: %w", err)
	}
	return &schedule, nil
}
