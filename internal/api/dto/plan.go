package dto

import "time"

// PlanRequest is shared by the plan, compare and export endpoints. Every field is optional.
type PlanRequest struct {
	Strategy   string `json:"strategy" validate:"omitempty,oneof=time distance balanced"`
	Transport  string `json:"transport" validate:"omitempty,oneof=car public walking"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DayStart   string `json:"day_start" validate:"omitempty,datetime=15:04"`
	DayEnd     string `json:"day_end" validate:"omitempty,datetime=15:04"`
	LunchStart string `json:"lunch_start" validate:"omitempty,datetime=15:04"`
	LunchEnd   string `json:"lunch_end" validate:"omitempty,datetime=15:04"`
}

type PlanEntryResponse struct {
	Order             int        `json:"order"`
	PointID           string     `json:"point_id"`
	Address           string     `json:"address"`
	Level             string     `json:"level"`
	Day               int        `json:"day"`
	Arrival           string     `json:"arrival"`
	Departure         string     `json:"departure"`
	ArrivalAt         *time.Time `json:"arrival_at"`
	DepartureAt       *time.Time `json:"departure_at"`
	VisitMinutes      int        `json:"visit_minutes"`
	TravelTimeMinutes int        `json:"travel_time_minutes"`
	TravelDistanceKm  float64    `json:"travel_distance_km"`
	Status            string     `json:"status"`
}

type PlanResponse struct {
	PlanID               string              `json:"plan_id"`
	Strategy             string              `json:"strategy"`
	Transport            string              `json:"transport"`
	Date                 string              `json:"date"`
	Days                 int                 `json:"days"`
	TotalDurationMinutes int                 `json:"total_duration_minutes"`
	TotalDistanceKm      float64             `json:"total_distance_km"`
	Cached               bool                `json:"cached"`
	Entries              []PlanEntryResponse `json:"entries"`
	Unplaceable          []string            `json:"unplaceable"`
}

type StrategySummaryResponse struct {
	Strategy             string  `json:"strategy"`
	Days                 int     `json:"days"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	Unplaceable          int     `json:"unplaceable"`
}

type CompareResponse struct {
	Strategies []StrategySummaryResponse `json:"strategies"`
}
