package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/obs"
)

// SQLite-backed implementation of the VisitRepository port.
type SqliteVisitRepository struct{ DB *sql.DB }

func NewSqliteVisitRepository(db *sql.DB) *SqliteVisitRepository {
	return &SqliteVisitRepository{DB: db}
}

// Return all visit points in import order.
func (s *SqliteVisitRepository) ListVisitPoints(ctx context.Context) (_ []domain.VisitPoint, err error) {
	defer obs.Time(ctx, "visits.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite visit repository: DB is nil")
	}

	query := `
	SELECT ` + visitColumns + `
	FROM visit_points
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list visit points: query visit_points table: %w", err)
	}
	defer rows.Close()

	points, err := scanVisitPoints(rows)
	if err != nil {
		return nil, fmt.Errorf("list visit points: %w", err)
	}
	return points, nil
}

// Replace all stored visit points in a single transaction.
func (s *SqliteVisitRepository) ReplaceVisitPoints(ctx context.Context, points []domain.VisitPoint) (err error) {
	defer obs.Time(ctx, "visits.sqlite.Replace")(&err)

	if s.DB == nil {
		return errors.New("sqlite visit repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace visit points: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM visit_points;`); err != nil {
		return fmt.Errorf("replace visit points: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO visit_points (seq, `+visitColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace visit points: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, visitArgs(i+1, p)...); err != nil {
			return fmt.Errorf("replace visit points: insert point_id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace visit points: commit tx: %w", err)
	}

	return nil
}
