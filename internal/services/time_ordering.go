package services

import "visit-route-planner/internal/domain"

const (
	timeVIPBonus       = 0.7
	timeEarlyPerMinute = 0.5
	timeLunchPerMinute = 2.0
	timeLatePerMinute  = 3.0
)

// timeOrder seeds at the earliest opening client and walks by distance plus
// a per-minute penalty for arriving early, during lunch or after closing.
func timeOrder(points []domain.VisitPoint) []int {
	seed := 0
	for i := 1; i < len(points); i++ {
		if points[i].WorkStart < points[seed].WorkStart {
			seed = i
		}
	}

	return greedyWalk(len(points), seed, identity(len(points)), func(from, to int) float64 {
		distance, _ := estimatedArrival(points[from], points[to])

		vip := 1.0
		if points[to].IsVIP() {
			vip = timeVIPBonus
		}
		return (distance + timePenalty(points[from], points[to])) * vip
	})
}

func timePenalty(from, to domain.VisitPoint) float64 {
	_, arrival := estimatedArrival(from, to)

	penalty := 0.0
	if ws := float64(to.WorkStart); arrival < ws {
		penalty += (ws - arrival) * timeEarlyPerMinute
	}
	if inLunch(to, arrival) {
		penalty += (float64(to.LunchEnd) - arrival) * timeLunchPerMinute
	}
	if we := float64(to.WorkEnd); arrival > we {
		penalty += (arrival - we) * timeLatePerMinute
	}
	return penalty
}
