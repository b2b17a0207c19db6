package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/ports"
)

// VisitSeed is one visit point in a JSON seed file. Times are "HH:MM";
// empty times take the default working day.
type VisitSeed struct {
	ID         string  `json:"id"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	WorkStart  string  `json:"work_start"`
	WorkEnd    string  `json:"work_end"`
	LunchStart string  `json:"lunch_start"`
	LunchEnd   string  `json:"lunch_end"`
	Level      string  `json:"level"`
	Duration   int     `json:"duration"`
}

// Point converts the seed record, rejecting malformed times and levels.
func (s VisitSeed) Point() (domain.VisitPoint, error) {
	p := domain.VisitPoint{
		ID:          strings.TrimSpace(s.ID),
		Address:     strings.TrimSpace(s.Address),
		Coordinates: domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
		Duration:    s.Duration,
	}
	if p.ID == "" {
		return p, errors.New("visit seed: id cannot be empty")
	}

	times := []struct {
		raw      string
		fallback int
		dst      *int
	}{
		{s.WorkStart, clock.DefaultWorkStart, &p.WorkStart},
		{s.WorkEnd, clock.DefaultWorkEnd, &p.WorkEnd},
		{s.LunchStart, clock.DefaultLunchStart, &p.LunchStart},
		{s.LunchEnd, clock.DefaultLunchEnd, &p.LunchEnd},
	}
	for _, t := range times {
		if strings.TrimSpace(t.raw) == "" {
			*t.dst = t.fallback
			continue
		}
		m, err := clock.ToMinutes(strings.TrimSpace(t.raw))
		if err != nil {
			return p, fmt.Errorf("visit seed %q: %w", p.ID, err)
		}
		*t.dst = m
	}

	if strings.TrimSpace(s.Level) != "" {
		level, err := domain.ParseClientLevel(s.Level)
		if err != nil {
			return p, fmt.Errorf("visit seed %q: %w", p.ID, err)
		}
		p.Level = level
	}

	return p, nil
}

// SeedFromJSON replaces the stored visit points with the contents of a JSON file.
func SeedFromJSON(ctx context.Context, repo ports.VisitRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed visits: read %q: %w", jsonPath, err)
	}

	var data []VisitSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed visits: parse json: %w", err)
	}

	points := make([]domain.VisitPoint, 0, len(data))
	for i, item := range data {
		p, err := item.Point()
		if err != nil {
			return 0, fmt.Errorf("seed visits: item at index %d: %w", i+1, err)
		}
		points = append(points, p)
	}

	if err := repo.ReplaceVisitPoints(ctx, points); err != nil {
		return 0, fmt.Errorf("seed visits: %w", err)
	}

	return len(points), nil
}
