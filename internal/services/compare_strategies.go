package services

import (
	"context"
	"fmt"
	"slices"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/obs"
	"visit-route-planner/internal/ports"

	"golang.org/x/sync/errgroup"
)

// StrategySummary condenses the schedule one strategy produces.
type StrategySummary struct {
	Strategy        domain.Strategy
	Days            int
	TotalDuration   int
	TotalDistanceKm float64
	Unplaceable     int
}

// CompareStrategies schedules the stored visit points once per strategy and
// returns one summary per strategy in domain.Strategies order.
func CompareStrategies(
	ctx context.Context,
	opts ScheduleOptions,
	repo ports.VisitRepository,
) (_ []StrategySummary, err error) {
	defer obs.Time(ctx, "plan.compare")(&err)

	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("compare strategies: %w", err)
	}

	points, err := repo.ListVisitPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("compare strategies: list visit points: %w", err)
	}

	out := make([]StrategySummary, len(domain.Strategies))
	g, ctx := errgroup.WithContext(ctx)

	for i, strategy := range domain.Strategies {
		i, strategy := i, strategy
		own := slices.Clone(points)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			route, err := Order(own, strategy)
			if err != nil {
				return fmt.Errorf("compare strategies: %w", err)
			}
			s := BuildSchedule(route, opts)

			out[i] = StrategySummary{
				Strategy:        strategy,
				Days:            s.Days,
				TotalDuration:   s.TotalDuration,
				TotalDistanceKm: s.TotalDistanceKm,
				Unplaceable:     len(s.Unplaceable),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
