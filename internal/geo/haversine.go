// Package geo provides great-circle helpers for visit coordinates.
package geo

import (
	"math"

	"visit-route-planner/internal/domain"
)

// EarthRadiusKm is the mean radius of Earth in kilometers.
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance between a and b in kilometers.
func Distance(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Centroid returns the arithmetic mean of the coordinates, or the zero value for an empty slice.
func Centroid(points []domain.Coordinates) domain.Coordinates {
	if len(points) == 0 {
		return domain.Coordinates{}
	}

	var sum domain.Coordinates
	for _, p := range points {
		sum.Lat += p.Lat
		sum.Lon += p.Lon
	}
	n := float64(len(points))
	return domain.Coordinates{Lat: sum.Lat / n, Lon: sum.Lon / n}
}

// TravelMinutes estimates travel time for distanceKm at speedKmh.
func TravelMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		return math.Inf(1)
	}
	return distanceKm / speedKmh * 60
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
