package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"visit-route-planner/internal/adapters/cache"
	"visit-route-planner/internal/adapters/repositories"
	"visit-route-planner/internal/api"
	"visit-route-planner/internal/config"
	"visit-route-planner/internal/platform/db"
	"visit-route-planner/internal/ports"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	repo := newRepository(sqlDB, cfg)

	// Initialize schema and seed demo data when the store is empty.
	if err := initAndSeed(ctx, sqlDB, repo, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	planCache, closeCache, err := newPlanCache(ctx, sqlDB, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	router := api.NewRouter(api.Deps{
		Repo:             repo,
		Cache:            planCache,
		DefaultStrategy:  cfg.DefaultStrategy,
		DefaultTransport: cfg.DefaultTransport,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s db_driver=%s strategy=%s transport=%s",
		cfg.Port, cfg.DBDriver, cfg.DefaultStrategy, cfg.DefaultTransport)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server stopped: %v", err)
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DBDriver == db.DriverPostgres {
		return db.Open(ctx, cfg.DatabaseURL)
	}
	return db.OpenSQLite(ctx, cfg.DBPath)
}

func newRepository(sqlDB *sql.DB, cfg config.Config) ports.VisitRepository {
	if cfg.DBDriver == db.DriverPostgres {
		return repositories.NewSQLVisitRepository(sqlDB)
	}
	return repositories.NewSqliteVisitRepository(sqlDB)
}

// newPlanCache prefers Redis when REDIS_URL is set and falls back to the
// plan_cache table. A non-positive PLAN_CACHE_TTL disables caching.
func newPlanCache(ctx context.Context, sqlDB *sql.DB, cfg config.Config) (ports.PlanCache, func(), error) {
	noop := func() {}

	if cfg.PlanCacheTTL <= 0 {
		log.Println("Plan cache disabled")
		return nil, noop, nil
	}

	if cfg.RedisURL != "" {
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Plan cache backend=redis ttl=%s", cfg.PlanCacheTTL)
		return cache.NewRedisPlanCache(client, cfg.PlanCacheTTL), closeRedis(client), nil
	}

	log.Printf("Plan cache backend=%s ttl=%s", cfg.DBDriver, cfg.PlanCacheTTL)
	if cfg.DBDriver == db.DriverPostgres {
		return cache.NewSQLPlanCache(sqlDB, cfg.PlanCacheTTL), noop, nil
	}
	return cache.NewSqlitePlanCache(sqlDB, cfg.PlanCacheTTL), noop, nil
}

func closeRedis(client *redis.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
}

func initAndSeed(ctx context.Context, sqlDB *sql.DB, repo ports.VisitRepository, seedPath string) error {
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	existing, err := repo.ListVisitPoints(ctx)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("Seed file not found path=%s (starting empty)", seedPath)
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, repo, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("Seeded visit points count=%d path=%s", n, seedPath)

	return nil
}
