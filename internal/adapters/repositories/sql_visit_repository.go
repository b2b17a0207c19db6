package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/obs"
)

// SQLVisitRepository is a Postgres-backed VisitRepository, used through the pgx stdlib driver.
type SQLVisitRepository struct {
	DB *sql.DB
}

func NewSQLVisitRepository(db *sql.DB) *SQLVisitRepository {
	return &SQLVisitRepository{DB: db}
}

// Return all visit points in import order.
func (s *SQLVisitRepository) ListVisitPoints(ctx context.Context) (_ []domain.VisitPoint, err error) {
	defer obs.Time(ctx, "visits.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("visit repository: db is nil")
	}

	q := `
	SELECT ` + visitColumns + `
	FROM visit_points
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, q)
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
func (s *SQLVisitRepository) ReplaceVisitPoints(ctx context.Context, points []domain.VisitPoint) (err error) {
	defer obs.Time(ctx, "visits.sql.Replace")(&err)

	if s.DB == nil {
		return errors.New("visit repository: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace visit points: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `TRUNCATE visit_points;`); err != nil {
		return fmt.Errorf("replace visit points: truncate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO visit_points (seq, `+visitColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`)
	if err != nil {
		return fmt.Errorf("replace visit points: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, visitArgs(i+1, p)...); err != nil {
			return fmt.Errorf("replace visit points point_id=%q: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace visit points commit: %w", err)
	}

	return nil
}
