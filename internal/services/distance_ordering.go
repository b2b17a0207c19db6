package services

import (
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/geo"
)

const (
	distanceVIPModifier  = 0.8
	distanceEarlyPenalty = 0.3
	distanceLunchPenalty = 0.8
	distanceLatePenalty  = 1.5
)

// distanceOrder seeds at the point nearest the centroid and walks by
// distance, discounted for VIP clients and inflated for poor time-window fit.
func distanceOrder(points []domain.VisitPoint) []int {
	coords := make([]domain.Coordinates, len(points))
	for i, p := range points {
		coords[i] = p.Coordinates
	}
	center := geo.Centroid(coords)

	seed := 0
	seedDist := geo.Distance(center, coords[0])
	for i := 1; i < len(coords); i++ {
		if d := geo.Distance(center, coords[i]); d < seedDist {
			seed, seedDist = i, d
		}
	}

	return greedyWalk(len(points), seed, identity(len(points)), func(from, to int) float64 {
		distance, _ := estimatedArrival(points[from], points[to])

		vip := 1.0
		if points[to].IsVIP() {
			vip = distanceVIPModifier
		}
		return distance * vip * timeModifier(points[from], points[to])
	})
}

// timeModifier is a multiplier >= 1 penalizing arrivals outside the candidate's working window.
func timeModifier(from, to domain.VisitPoint) float64 {
	_, arrival := estimatedArrival(from, to)

	modifier := 1.0
	if arrival < float64(to.WorkStart) {
		modifier += distanceEarlyPenalty
	}
	if inLunch(to, arrival) {
		modifier += distanceLunchPenalty
	}
	if arrival > float64(to.WorkEnd) {
		modifier += distanceLatePenalty
	}
	return modifier
}
