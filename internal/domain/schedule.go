package domain

import (
	"errors"
	"fmt"
	"time"
)

// VisitStatus classifies an arrival against the client's own time windows.
type VisitStatus string

const (
	StatusNormal        VisitStatus = "normal"
	StatusEarly         VisitStatus = "early"
	StatusLate          VisitStatus = "late"
	StatusLunchConflict VisitStatus = "lunch_conflict"
	StatusUnplaceable   VisitStatus = "unplaceable"
)

// Represents a single scheduled visit.
// Arrival and departure are absolute; TravelTimeMinutes and TravelDistanceKm
// describe the leg to the next entry. Unplaceable entries carry zero times.
type ScheduleEntry struct {
	PointID           string
	Address           string
	Level             ClientLevel
	Order             int
	ArrivalTime       time.Time
	DepartureTime     time.Time
	VisitMinutes      int
	TravelTimeMinutes int
	TravelDistanceKm  float64
	Day               int
	Status            VisitStatus
	WorkStart         int
	WorkEnd           int
	LunchStart        int
	LunchEnd          int
}

func (e ScheduleEntry) Placed() bool { return e.Status != StatusUnplaceable }

// Represents a multi-day visit schedule built from an ordered route.
// It is immutable planning data and contains no side effects.
type Schedule struct {
	Entries         []ScheduleEntry
	TotalDuration   int
	TotalDistanceKm float64
	Days            int
	Unplaceable     []string
}

// PlacementError reports a visit that cannot fit into any working day.
type PlacementError struct {
	PointID  string
	Duration int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("place visit %q: duration %dm does not fit a working day", e.PointID, e.Duration)
}

// Err joins a PlacementError for every unplaceable entry, or returns nil.
func (s *Schedule) Err() error {
	var errs []error
	for _, e := range s.Entries {
		if !e.Placed() {
			errs = append(errs, &PlacementError{PointID: e.PointID, Duration: e.VisitMinutes})
		}
	}
	return errors.Join(errs...)
}
