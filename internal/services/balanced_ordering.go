package services

import (
	"math"
	"visit-route-planner/internal/domain"
)

const (
	balancedDistanceWeight = 0.6
	balancedTimeWeight     = 0.4
	balancedVIPPriority    = 0.6

	idealArrivalPerMinute = 0.1
	lunchPerMinute        = 2.0
	latePerMinute         = 5.0

	beforeLunchBonus = 3.0
	noon             = 12 * 60
)

// balancedOrder serves VIP clients first where it can, seeding at the VIP with
// the most room before lunch, and then blends distance with time-window fit.
// Candidates are enumerated VIP-first so that ties favour VIP clients.
func balancedOrder(points []domain.VisitPoint) []int {
	vips := make([]int, 0, len(points))
	standard := make([]int, 0, len(points))
	for i, p := range points {
		if p.IsVIP() {
			vips = append(vips, i)
		} else {
			standard = append(standard, i)
		}
	}

	enum := make([]int, 0, len(points))
	enum = append(enum, vips...)
	enum = append(enum, standard...)

	return greedyWalk(len(points), balancedSeed(points, vips, standard), enum, func(from, to int) float64 {
		distance, _ := estimatedArrival(points[from], points[to])

		priority := 1.0
		if points[to].IsVIP() {
			priority = balancedVIPPriority
		}
		score := distance*balancedDistanceWeight + timeScore(points[from], points[to])*balancedTimeWeight
		return score * priority
	})
}

func balancedSeed(points []domain.VisitPoint, vips, standard []int) int {
	if len(vips) > 0 {
		best := -1
		for _, i := range vips {
			if !points[i].CanVisitBeforeLunch() {
				continue
			}
			if best == -1 || points[i].MinutesBeforeLunch() > points[best].MinutesBeforeLunch() {
				best = i
			}
		}
		if best != -1 {
			return best
		}
		return vips[0]
	}

	best := standard[0]
	for _, i := range standard[1:] {
		if startPriority(points[i]) > startPriority(points[best]) {
			best = i
		}
	}
	return best
}

// startPriority rewards points that can be visited before lunch, that have a
// wide working window, and that open early.
func startPriority(p domain.VisitPoint) float64 {
	priority := 0.0
	if p.CanVisitBeforeLunch() {
		priority += beforeLunchBonus
	}
	priority += float64(p.WorkEnd-p.WorkStart) / 60
	priority += float64(noon-p.WorkStart) / 60
	return priority
}

// timeScore penalizes deviation from the candidate's opening time, landing in
// its lunch window, and arriving after it closes.
func timeScore(from, to domain.VisitPoint) float64 {
	_, arrival := estimatedArrival(from, to)

	score := math.Abs(arrival-float64(to.WorkStart)) * idealArrivalPerMinute
	if inLunch(to, arrival) {
		score += (float64(to.LunchEnd) - arrival) * lunchPerMinute
	}
	if we := float64(to.WorkEnd); arrival > we {
		score += (arrival - we) * latePerMinute
	}
	return score
}
