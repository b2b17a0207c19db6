// Package clock converts between "HH:MM" strings, minutes since midnight
// and absolute timestamps, and tests interval overlap.
package clock

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWorkStart  = 9 * 60
	DefaultWorkEnd    = 18 * 60
	DefaultLunchStart = 13 * 60
	DefaultLunchEnd   = 14 * 60

	MinutesPerDay = 24 * 60
)

var ErrInvalidTime = errors.New("invalid time of day")

// ParseError is returned when a time-of-day string cannot be parsed.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse time %q: %v", e.Value, ErrInvalidTime) }

func (e *ParseError) Unwrap() error { return ErrInvalidTime }

var strictHHMM = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ToMinutes parses "H:MM" or "HH:MM" into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	m := strictHHMM.FindStringSubmatch(strings.TrimSpace(hhmm))
	if m == nil {
		return 0, &ParseError{Value: hhmm}
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return 0, &ParseError{Value: hhmm}
	}
	return h*60 + mm, nil
}

// MinutesOr parses hhmm and returns fallback when it is empty or malformed.
func MinutesOr(hhmm string, fallback int) int {
	v, err := ToMinutes(hhmm)
	if err != nil {
		return fallback
	}
	return v
}

// Format renders minutes since midnight as "HH:MM", wrapping at midnight.
func Format(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

var looseHHMM = regexp.MustCompile(`^(\d{1,2})[:.\s]?(\d{2})?$`)

// Normalize accepts the loose time notations found in spreadsheets
// ("9", "9:00", "0900", "9 00", "09.30", or a day fraction such as "0.375")
// and returns the canonical "HH:MM" form. A leading "0." always denotes a day fraction.
func Normalize(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	// Spreadsheet cells without a time format come through as a fraction of a day.
	if strings.HasPrefix(v, "0.") {
		return fraction(v)
	}

	if m := looseHHMM.FindStringSubmatch(v); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		if h > 23 || mm > 59 {
			return "", false
		}
		return Format(h*60 + mm), true
	}

	return "", false
}

func fraction(v string) (string, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f >= 1 {
		return "", false
	}
	return Format(int(math.Round(f * MinutesPerDay))), true
}

// IntervalsOverlap reports whether [startA, endA) and [startB, endB) intersect.
func IntervalsOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// TimesOverlap is IntervalsOverlap for absolute timestamps.
func TimesOverlap(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

// At returns the wall-clock time minutes after midnight on day's date, in day's location.
func At(day time.Time, minutes int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, minutes, 0, 0, day.Location())
}

// MinuteOfDay returns the minutes elapsed since midnight for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NextDay returns the date following t at the given minute of day.
func NextDay(t time.Time, minutes int) time.Time {
	return At(t.AddDate(0, 0, 1), minutes)
}
