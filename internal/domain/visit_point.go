package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultVisitDuration is applied when a visit point carries no explicit duration.
const DefaultVisitDuration = 30

var ErrUnknownLevel = errors.New("unknown client level")

// ClientLevel is the priority tier of a client. VIP clients bias every ordering strategy.
type ClientLevel int

const (
	LevelStandard ClientLevel = iota
	LevelVIP
)

func (l ClientLevel) String() string {
	if l == LevelVIP {
		return "VIP"
	}
	return "Standard"
}

// ParseClientLevel maps free-form level labels to a ClientLevel.
// The legacy "Standart" spelling found in older spreadsheets is accepted as Standard.
func ParseClientLevel(s string) (ClientLevel, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "vip"), strings.Contains(v, "важный"), strings.Contains(v, "высокий"):
		return LevelVIP, nil
	case strings.Contains(v, "standard"), strings.Contains(v, "standart"),
		strings.Contains(v, "стандарт"), strings.Contains(v, "обычный"):
		return LevelStandard, nil
	}
	return LevelStandard, fmt.Errorf("parse client level %q: %w", s, ErrUnknownLevel)
}

// Represents a single location to visit.
// Time fields are minutes since midnight. The engine trusts that
// WorkStart <= LunchStart <= LunchEnd <= WorkEnd.
type VisitPoint struct {
	ID          string
	Address     string
	Coordinates Coordinates
	WorkStart   int
	WorkEnd     int
	LunchStart  int
	LunchEnd    int
	Level       ClientLevel
	Duration    int
}

func (p VisitPoint) IsVIP() bool { return p.Level == LevelVIP }

// VisitDuration returns the visit length in minutes, falling back to DefaultVisitDuration.
func (p VisitPoint) VisitDuration() int {
	if p.Duration <= 0 {
		return DefaultVisitDuration
	}
	return p.Duration
}

// CanVisitBeforeLunch reports whether a full visit fits between the start of work and lunch.
func (p VisitPoint) CanVisitBeforeLunch() bool {
	return p.MinutesBeforeLunch() >= p.VisitDuration()
}

func (p VisitPoint) MinutesBeforeLunch() int { return p.LunchStart - p.WorkStart }
