package repositories

import (
	"context"
	"slices"
	"sync"
	"visit-route-planner/internal/domain"
)

// MemoryVisitRepository keeps visit points in process memory. Safe for concurrent use.
type MemoryVisitRepository struct {
	mu     sync.RWMutex
	points []domain.VisitPoint
}

func NewMemoryVisitRepository(points ...domain.VisitPoint) *MemoryVisitRepository {
	return &MemoryVisitRepository{points: slices.Clone(points)}
}

func (m *MemoryVisitRepository) ListVisitPoints(ctx context.Context) ([]domain.VisitPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.points), nil
}

func (m *MemoryVisitRepository) ReplaceVisitPoints(ctx context.Context, points []domain.VisitPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = slices.Clone(points)
	return nil
}
