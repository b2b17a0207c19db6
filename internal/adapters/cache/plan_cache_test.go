package cache

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"testing"
	"time"
	"visit-route-planner/internal/adapters/repositories"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func sampleSchedule() *domain.Schedule {
	arrival := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return &domain.Schedule{
		Entries: []domain.ScheduleEntry{
			{
				PointID:           "1",
				Address:           "Bolshaya Sadovaya St, 1",
				Level:             domain.LevelVIP,
				Order:             1,
				ArrivalTime:       arrival,
				DepartureTime:     arrival.Add(45 * time.Minute),
				VisitMinutes:      45,
				TravelTimeMinutes: 7,
				TravelDistanceKm:  6.8,
				Day:               1,
				Status:            domain.StatusNormal,
			},
			{
				PointID:      "2",
				Order:        2,
				VisitMinutes: 400,
				Status:       domain.StatusUnplaceable,
			},
		},
		TotalDuration:   52,
		TotalDistanceKm: 6.8,
		Days:            1,
		Unplaceable:     []string{"2"},
	}
}

func assertSameSchedule(t *testing.T, want, got *domain.Schedule) {
	t.Helper()

	require.NotNil(t, got)
	require.Len(t, got.Entries, len(want.Entries))
	for i := range want.Entries {
		w, g := want.Entries[i], got.Entries[i]
		assert.Equal(t, w.PointID, g.PointID)
		assert.Equal(t, w.Level, g.Level)
		assert.Equal(t, w.Status, g.Status)
		assert.Equal(t, w.Day, g.Day)
		assert.True(t, w.ArrivalTime.Equal(g.ArrivalTime), "arrival %d", i)
		assert.True(t, w.DepartureTime.Equal(g.DepartureTime), "departure %d", i)
	}
	assert.Equal(t, want.TotalDuration, got.TotalDuration)
	assert.InDelta(t, want.TotalDistanceKm, got.TotalDistanceKm, 1e-9)
	assert.Equal(t, want.Days, got.Days)
	assert.Equal(t, want.Unplaceable, got.Unplaceable)
}

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisPlanCache(client, ttl), mr
}

func TestRedisPlanCacheMiss(t *testing.T) {
	c, _ := newRedisCache(t, time.Minute)

	_, err := c.GetSchedule(context.Background(), "plan:none")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev, flags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prev)
		log.SetFlags(flags)
	})
	return &buf
}

func TestPlanCacheMissIsNotLoggedAsError(t *testing.T) {
	ctx := context.Background()
	buf := captureLog(t)

	c, _ := newRedisCache(t, time.Minute)
	_, err := c.GetSchedule(ctx, "plan:none")
	require.ErrorIs(t, err, ports.ErrCacheMiss)

	_, err = NewSqlitePlanCache(openCacheDB(t), time.Hour).GetSchedule(ctx, "plan:none")
	require.ErrorIs(t, err, ports.ErrCacheMiss)

	assert.Contains(t, buf.String(), "op=plan.cache.redis.Get")
	assert.Contains(t, buf.String(), "op=plan.cache.sqlite.Get")
	assert.NotContains(t, buf.String(), "err=")
}

func TestPlanCacheFailureIsLogged(t *testing.T) {
	buf := captureLog(t)

	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("plan:bad", "{"))
	_, err := c.GetSchedule(context.Background(), "plan:bad")
	require.Error(t, err)

	assert.Contains(t, buf.String(), "op=plan.cache.redis.Get")
	assert.Contains(t, buf.String(), "err=get plan cache: decode schedule")
}

func TestRedisPlanCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.PutSchedule(ctx, "plan:abc", sampleSchedule()))
	assert.True(t, mr.Exists("plan:abc"))
	assert.Equal(t, time.Minute, mr.TTL("plan:abc"))

	got, err := c.GetSchedule(ctx, "plan:abc")
	require.NoError(t, err)
	assertSameSchedule(t, sampleSchedule(), got)
}

func TestRedisPlanCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.PutSchedule(ctx, "plan:abc", sampleSchedule()))
	mr.FastForward(2 * time.Minute)

	_, err := c.GetSchedule(ctx, "plan:abc")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestRedisPlanCacheCorruptEntry(t *testing.T) {
	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("plan:bad", "{"))

	_, err := c.GetSchedule(context.Background(), "plan:bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrCacheMiss)
}

func TestRedisPlanCacheUnavailable(t *testing.T) {
	c, mr := newRedisCache(t, 0)
	mr.Close()

	_, err := c.GetSchedule(context.Background(), "plan:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrCacheMiss)
}

func openCacheDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repositories.InitSchema(context.Background(), db))
	return db
}

func TestSqlitePlanCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqlitePlanCache(openCacheDB(t), time.Hour)

	_, err := c.GetSchedule(ctx, "plan:abc")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.PutSchedule(ctx, "plan:abc", sampleSchedule()))
	got, err := c.GetSchedule(ctx, "plan:abc")
	require.NoError(t, err)
	assertSameSchedule(t, sampleSchedule(), got)

	updated := sampleSchedule()
	updated.Days = 3
	require.NoError(t, c.PutSchedule(ctx, "plan:abc", updated))
	got, err = c.GetSchedule(ctx, "plan:abc")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Days)
}

func TestSqlitePlanCacheExpiredEntry(t *testing.T) {
	ctx := context.Background()
	db := openCacheDB(t)
	c := NewSqlitePlanCache(db, time.Hour)

	_, err := db.ExecContext(ctx,
		`INSERT INTO plan_cache (plan_key, schedule, expires_at) VALUES (?, ?, ?)`,
		"plan:old", `{"Days":1}`, time.Now().Add(-time.Minute).Unix())
	require.NoError(t, err)

	_, err = c.GetSchedule(ctx, "plan:old")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestSqlitePlanCacheRejectsEmptyKey(t *testing.T) {
	c := NewSqlitePlanCache(openCacheDB(t), 0)
	assert.Error(t, c.PutSchedule(context.Background(), " ", sampleSchedule()))
}

func TestExpiryFor(t *testing.T) {
	assert.Equal(t, int64(0), expiryFor(0))
	assert.Greater(t, expiryFor(time.Minute), time.Now().Unix())
}
