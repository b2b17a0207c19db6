package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the visit point and plan cache tables. The DDL is valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVisitPointsQuery := `
	CREATE TABLE IF NOT EXISTS visit_points (
		seq INTEGER PRIMARY KEY,
		point_id TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		work_start INTEGER NOT NULL,
		work_end INTEGER NOT NULL,
		lunch_start INTEGER NOT NULL,
		lunch_end INTEGER NOT NULL,
		level TEXT NOT NULL,
		duration INTEGER NOT NULL
	);
	`

	createPlanCacheQuery := `
	CREATE TABLE IF NOT EXISTS plan_cache (
		plan_key TEXT PRIMARY KEY,
		schedule TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_visit_points_level
	ON visit_points(level);
	`

	statements := []string{
		createVisitPointsQuery,
		createPlanCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
