package ports

import (
	"context"
	"visit-route-planner/internal/domain"
)

// Port: a boundary for loading and storing VisitPoint records.
type VisitRepository interface {
	// Retrieve all visit points in import order.
	ListVisitPoints(ctx context.Context) ([]domain.VisitPoint, error)
	// Replace every stored visit point with points, atomically.
	ReplaceVisitPoints(ctx context.Context, points []domain.VisitPoint) error
}
