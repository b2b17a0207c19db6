package services

import (
	"errors"
	"fmt"
	"slices"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/geo"
)

// Average speed used to estimate arrival times while ordering.
// The schedule builder uses the transport mode speed instead.
const orderingSpeedKmh = 40.0

var ErrUnknownStrategy = errors.New("unknown ordering strategy")

// Order returns a visiting order for points using the given strategy.
//
// Each strategy is a greedy nearest-next selection with its own seed and
// scoring. The result is always a permutation of points; inputs with fewer
// than two points are returned unchanged. Ordering is deterministic: ties go
// to the first candidate in enumeration order.
func Order(points []domain.VisitPoint, strategy domain.Strategy) ([]domain.VisitPoint, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("order visits: strategy %q: %w", strategy, ErrUnknownStrategy)
	}

	if len(points) <= 1 {
		return slices.Clone(points), nil
	}

	var order []int
	switch strategy {
	case domain.StrategyDistance:
		order = distanceOrder(points)
	case domain.StrategyTime:
		order = timeOrder(points)
	case domain.StrategyBalanced:
		order = balancedOrder(points)
	}

	out := make([]domain.VisitPoint, 0, len(points))
	for _, i := range order {
		out = append(out, points[i])
	}
	return out, nil
}

// scoreFunc rates moving from points[from] to points[to]; lower is better.
type scoreFunc func(from, to int) float64

// greedyWalk starts at seed and repeatedly appends the unused candidate with the
// lowest score. Candidates are examined in the order given by enum.
func greedyWalk(n, seed int, enum []int, score scoreFunc) []int {
	used := make([]bool, n)
	order := make([]int, 0, n)

	used[seed] = true
	order = append(order, seed)
	current := seed

	for len(order) < n {
		best := -1
		bestScore := 0.0

		// Select next stop by minimum score (greedy step).
		for _, c := range enum {
			if used[c] {
				continue
			}
			s := score(current, c)
			// Strict comparison keeps the first candidate on ties.
			if best == -1 || s < bestScore {
				best = c
				bestScore = s
			}
		}

		used[best] = true
		order = append(order, best)
		current = best
	}

	return order
}

// estimatedArrival approximates the arrival minute at to when leaving from at its work start.
func estimatedArrival(from, to domain.VisitPoint) (distanceKm, arrival float64) {
	distanceKm = geo.Distance(from.Coordinates, to.Coordinates)
	arrival = float64(from.WorkStart) + geo.TravelMinutes(distanceKm, orderingSpeedKmh)
	return distanceKm, arrival
}

func inLunch(p domain.VisitPoint, minute float64) bool {
	return minute >= float64(p.LunchStart) && minute < float64(p.LunchEnd)
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
