package services

import (
	"errors"
	"fmt"
	"math"
	"time"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/geo"
)

const (
	// A visit that needs more day rollovers than this cannot fit any working day.
	maxRolloversPerPoint = 2

	// Visit length assumed when classifying an arrival against the client's own lunch.
	statusWindowMinutes = 30
)

// ErrInvalidOptions is returned when ScheduleOptions describe an empty or inverted interval.
var ErrInvalidOptions = errors.New("invalid schedule options")

// ScheduleOptions describe the working day the schedule is built against.
// Minute fields are minutes since midnight. A day or lunch pair left entirely
// zero falls back to the default; a single zero is midnight.
type ScheduleOptions struct {
	Date       time.Time
	DayStart   int
	DayEnd     int
	LunchStart int
	LunchEnd   int
	Transport  domain.TransportMode
}

// DefaultScheduleOptions returns a 09:00-18:00 day with a 13:00-14:00 lunch, travelling by car.
func DefaultScheduleOptions(date time.Time) ScheduleOptions {
	return ScheduleOptions{
		Date:       date,
		DayStart:   clock.DefaultWorkStart,
		DayEnd:     clock.DefaultWorkEnd,
		LunchStart: clock.DefaultLunchStart,
		LunchEnd:   clock.DefaultLunchEnd,
		Transport:  domain.TransportCar,
	}
}

func (o ScheduleOptions) withDefaults() ScheduleOptions {
	d := DefaultScheduleOptions(o.Date)
	if o.Date.IsZero() {
		d.Date = time.Now()
	}
	if o.DayStart != 0 || o.DayEnd != 0 {
		d.DayStart, d.DayEnd = o.DayStart, o.DayEnd
	}
	if o.LunchStart != 0 || o.LunchEnd != 0 {
		d.LunchStart, d.LunchEnd = o.LunchStart, o.LunchEnd
	}
	if o.Transport != "" {
		d.Transport = o.Transport
	}
	return d
}

// Validate reports whether the working day and lunch are non-empty intervals
// within one calendar day.
func (o ScheduleOptions) Validate() error {
	for _, m := range []int{o.DayStart, o.DayEnd, o.LunchStart, o.LunchEnd} {
		if m < 0 || m > clock.MinutesPerDay {
			return fmt.Errorf("%w: %d is not a time of day", ErrInvalidOptions, m)
		}
	}
	if o.DayStart >= o.DayEnd {
		return fmt.Errorf("%w: day_start must be before day_end", ErrInvalidOptions)
	}
	if o.LunchStart >= o.LunchEnd {
		return fmt.Errorf("%w: lunch_start must be before lunch_end", ErrInvalidOptions)
	}
	return nil
}

// walker tracks the position of a schedule walk.
type walker struct {
	opts     ScheduleOptions
	current  time.Time
	dayStart time.Time
	day      int
}

func (w *walker) at(minutes int) time.Time { return clock.At(w.current, minutes) }

func (w *walker) rollover() {
	w.day++
	w.dayStart = clock.NextDay(w.current, w.opts.DayStart)
	w.current = w.dayStart
}

// place finds the first slot at or after w.current where the visit fits
// the working day without touching lunch. It reports false when the visit
// cannot fit any working day; w is then left mid-walk and must be restored.
func (w *walker) place(duration time.Duration) (arrival, departure time.Time, ok bool) {
	rollovers := 0

	for {
		if !clock.SameDate(w.current, w.dayStart) {
			w.day++
			w.dayStart = w.at(w.opts.DayStart)
			if w.current.Before(w.dayStart) {
				w.current = w.dayStart
			}
		}

		lunchStart, lunchEnd := w.at(w.opts.LunchStart), w.at(w.opts.LunchEnd)
		if !w.current.Before(lunchStart) && w.current.Before(lunchEnd) {
			w.current = lunchEnd
		}

		if !w.current.Before(w.at(w.opts.DayEnd)) {
			if rollovers++; rollovers > maxRolloversPerPoint {
				return time.Time{}, time.Time{}, false
			}
			w.rollover()
			continue
		}

		arrival = w.current
		departure = arrival.Add(duration)

		if clock.TimesOverlap(arrival, departure, lunchStart, lunchEnd) {
			w.current = lunchEnd
			continue
		}

		if departure.After(w.at(w.opts.DayEnd)) {
			if rollovers++; rollovers > maxRolloversPerPoint {
				return time.Time{}, time.Time{}, false
			}
			w.rollover()
			continue
		}

		return arrival, departure, true
	}
}

// BuildSchedule walks route in order and assigns each visit an arrival,
// departure and route day.
//
// Visits never overlap the lunch window and never run past the end of the
// working day; both are resolved by moving the arrival later, rolling to the
// next day when needed. A visit that cannot fit any working day is kept in
// the schedule with StatusUnplaceable and does not consume time. opts are
// not validated here; PlanVisits and CompareStrategies reject invalid ones.
func BuildSchedule(route []domain.VisitPoint, opts ScheduleOptions) *domain.Schedule {
	opts = opts.withDefaults()

	schedule := &domain.Schedule{
		Entries:     make([]domain.ScheduleEntry, 0, len(route)),
		Unplaceable: []string{},
	}
	if len(route) == 0 {
		return schedule
	}

	start := clock.At(opts.Date, opts.DayStart)
	w := walker{opts: opts, current: start, dayStart: start, day: 1}
	speed := opts.Transport.SpeedKmh()

	last := -1 // index into route of the last placed point
	lastEntry := -1

	for i, p := range route {
		entry := domain.ScheduleEntry{
			PointID:      p.ID,
			Address:      p.Address,
			Level:        p.Level,
			Order:        i + 1,
			VisitMinutes: p.VisitDuration(),
			WorkStart:    p.WorkStart,
			WorkEnd:      p.WorkEnd,
			LunchStart:   p.LunchStart,
			LunchEnd:     p.LunchEnd,
		}

		snapshot := w

		var legKm float64
		var travel int
		if last >= 0 {
			legKm = geo.Distance(route[last].Coordinates, p.Coordinates)
			travel = int(math.Round(geo.TravelMinutes(legKm, speed)))
			w.current = w.current.Add(time.Duration(travel) * time.Minute)
		}

		arrival, departure, ok := w.place(time.Duration(entry.VisitMinutes) * time.Minute)
		if !ok {
			w = snapshot
			entry.Status = domain.StatusUnplaceable
			schedule.Entries = append(schedule.Entries, entry)
			schedule.Unplaceable = append(schedule.Unplaceable, p.ID)
			continue
		}

		if lastEntry >= 0 {
			schedule.Entries[lastEntry].TravelTimeMinutes = travel
			schedule.Entries[lastEntry].TravelDistanceKm = legKm
		}

		entry.ArrivalTime = arrival
		entry.DepartureTime = departure
		entry.Day = w.day
		entry.Status = visitStatus(p, arrival)

		schedule.Entries = append(schedule.Entries, entry)
		last, lastEntry = i, len(schedule.Entries)-1
		w.current = departure
	}

	for _, e := range schedule.Entries {
		if !e.Placed() {
			continue
		}
		schedule.TotalDuration += e.VisitMinutes + e.TravelTimeMinutes
		schedule.TotalDistanceKm += e.TravelDistanceKm
		schedule.Days = max(schedule.Days, e.Day)
	}

	return schedule
}

// visitStatus classifies arrival against the point's own working hours and lunch.
func visitStatus(p domain.VisitPoint, arrival time.Time) domain.VisitStatus {
	switch {
	case arrival.Before(clock.At(arrival, p.WorkStart)):
		return domain.StatusEarly
	case !arrival.Before(clock.At(arrival, p.WorkEnd)):
		return domain.StatusLate
	}

	windowEnd := arrival.Add(statusWindowMinutes * time.Minute)
	if clock.TimesOverlap(arrival, windowEnd, clock.At(arrival, p.LunchStart), clock.At(arrival, p.LunchEnd)) {
		return domain.StatusLunchConflict
	}
	return domain.StatusNormal
}
