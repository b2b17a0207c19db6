package config

import (
	"testing"
	"time"
	"visit-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "SEED_PATH", "IMPORT_XLSX",
	"REDIS_URL", "PLAN_CACHE_TTL", "DEFAULT_STRATEGY", "DEFAULT_TRANSPORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/app.db", cfg.DBPath)
	assert.Equal(t, "data/seeds/visits.json", cfg.SeedPath)
	assert.Equal(t, 15*time.Minute, cfg.PlanCacheTTL)
	assert.Equal(t, domain.StrategyBalanced, cfg.DefaultStrategy)
	assert.Equal(t, domain.TransportCar, cfg.DefaultTransport)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://localhost/visits")
	t.Setenv("PLAN_CACHE_TTL", "1h")
	t.Setenv("DEFAULT_STRATEGY", "Distance")
	t.Setenv("DEFAULT_TRANSPORT", "walking")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.PlanCacheTTL)
	assert.Equal(t, domain.StrategyDistance, cfg.DefaultStrategy)
	assert.Equal(t, domain.TransportWalking, cfg.DefaultTransport)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"DB_DRIVER", "mysql"},
		{"DB_DRIVER", "pgx"},
		{"PLAN_CACHE_TTL", "soon"},
		{"DEFAULT_STRATEGY", "fastest"},
		{"DEFAULT_TRANSPORT", "bike"},
	}

	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("VISIT_PLANNER_TEST", "  value ")
	assert.Equal(t, "value", Get("VISIT_PLANNER_TEST", "fallback"))

	t.Setenv("VISIT_PLANNER_TEST", "")
	assert.Equal(t, "fallback", Get("VISIT_PLANNER_TEST", "fallback"))
}
