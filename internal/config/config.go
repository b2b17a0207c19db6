// Package config reads service settings from the environment, optionally
// preloaded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/db"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	SeedPath         string
	ImportXLSX       string
	RedisURL         string
	PlanCacheTTL     time.Duration
	DefaultStrategy  domain.Strategy
	DefaultTransport domain.TransportMode
}

// LoadDotEnv loads .env into the process environment when the file exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the environment value for key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FromEnv builds a Config from the environment and validates it.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    Get("DB_DRIVER", db.DriverSQLite),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/visits.json"),
		ImportXLSX:  Get("IMPORT_XLSX", ""),
		RedisURL:    Get("REDIS_URL", ""),
	}

	switch cfg.DBDriver {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("config: DATABASE_URL is required when DB_DRIVER=%s", db.DriverPostgres)
		}
	default:
		return cfg, fmt.Errorf("config: DB_DRIVER %q: want %s or %s", cfg.DBDriver, db.DriverSQLite, db.DriverPostgres)
	}

	ttl, err := time.ParseDuration(Get("PLAN_CACHE_TTL", "15m"))
	if err != nil {
		return cfg, fmt.Errorf("config: PLAN_CACHE_TTL: %w", err)
	}
	cfg.PlanCacheTTL = ttl

	cfg.DefaultStrategy = domain.Strategy(strings.ToLower(Get("DEFAULT_STRATEGY", string(domain.StrategyBalanced))))
	if !cfg.DefaultStrategy.Valid() {
		return cfg, fmt.Errorf("config: DEFAULT_STRATEGY %q is not one of %v", cfg.DefaultStrategy, domain.Strategies)
	}

	cfg.DefaultTransport, err = domain.ParseTransportMode(Get("DEFAULT_TRANSPORT", string(domain.TransportCar)))
	if err != nil {
		return cfg, fmt.Errorf("config: DEFAULT_TRANSPORT: %w", err)
	}

	return cfg, nil
}
