package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"
	"visit-route-planner/internal/adapters/spreadsheet"
	"visit-route-planner/internal/api/dto"
	"visit-route-planner/internal/clock"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/obs"
	"visit-route-planner/internal/ports"
	"visit-route-planner/internal/services"
)

// PlanHandler orders the stored visit points and builds their schedule.
// Cache may be nil.
type PlanHandler struct {
	Repo             ports.VisitRepository
	Cache            ports.PlanCache
	DefaultStrategy  domain.Strategy
	DefaultTransport domain.TransportMode
}

// Plan returns the schedule for one strategy as JSON.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	req, err := h.decodePlanRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := services.PlanVisits(r.Context(), req, h.Repo, h.Cache)
	if err != nil {
		writePlanError(w, r, "plan visits", err)
		return
	}
	warnUnplaceable(r, plan)

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

// Compare schedules the stored visit points with every strategy and returns one summary each.
func (h *PlanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	req, err := h.decodePlanRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := services.CompareStrategies(r.Context(), req.Options, h.Repo)
	if err != nil {
		writePlanError(w, r, "compare strategies", err)
		return
	}

	res := dto.CompareResponse{Strategies: make([]dto.StrategySummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		res.Strategies = append(res.Strategies, dto.StrategySummaryResponse{
			Strategy:             string(s.Strategy),
			Days:                 s.Days,
			TotalDurationMinutes: s.TotalDuration,
			TotalDistanceKm:      roundKm(s.TotalDistanceKm),
			Unplaceable:          s.Unplaceable,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Export returns the schedule for one strategy as an .xlsx attachment.
func (h *PlanHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	req, err := h.decodePlanRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := services.PlanVisits(r.Context(), req, h.Repo, h.Cache)
	if err != nil {
		writePlanError(w, r, "plan visits", err)
		return
	}
	warnUnplaceable(r, plan)

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", plan.Strategy, plan.Options.Date.Format("2006-01-02"))
	writeWorkbook(w, r, filename, func(out io.Writer) error {
		return spreadsheet.WriteSchedule(out, plan.Schedule)
	})
}

func (h *PlanHandler) decodePlanRequest(r *http.Request) (services.PlanVisitsRequest, error) {
	var req dto.PlanRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return services.PlanVisitsRequest{}, err
	}
	if err := validate.Struct(req); err != nil {
		return services.PlanVisitsRequest{}, errors.New(validationMessage(err))
	}

	out := services.PlanVisitsRequest{
		Strategy: h.DefaultStrategy,
		Options:  services.DefaultScheduleOptions(time.Now()),
	}
	if out.Strategy == "" {
		out.Strategy = domain.StrategyBalanced
	}
	if req.Strategy != "" {
		out.Strategy = domain.Strategy(req.Strategy)
	}

	if h.DefaultTransport != "" {
		out.Options.Transport = h.DefaultTransport
	}
	if req.Transport != "" {
		out.Options.Transport = domain.TransportMode(req.Transport)
	}

	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return services.PlanVisitsRequest{}, fmt.Errorf("date: %w", err)
		}
		out.Options.Date = date
	}

	o := &out.Options
	o.DayStart = clock.MinutesOr(req.DayStart, o.DayStart)
	o.DayEnd = clock.MinutesOr(req.DayEnd, o.DayEnd)
	o.LunchStart = clock.MinutesOr(req.LunchStart, o.LunchStart)
	o.LunchEnd = clock.MinutesOr(req.LunchEnd, o.LunchEnd)

	if err := o.Validate(); err != nil {
		return services.PlanVisitsRequest{}, err
	}

	return out, nil
}

// writePlanError answers 400 for rejected options and logs anything else as a 500.
func writePlanError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, services.ErrInvalidOptions) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func warnUnplaceable(r *http.Request, plan *services.VisitPlan) {
	if err := plan.Schedule.Err(); err != nil {
		log.Printf("req_id=%s plan_id=%s unplaceable=%d warn=%v",
			obs.RequestID(r.Context()), plan.ID, len(plan.Schedule.Unplaceable), err)
	}
}

func toPlanResponse(plan *services.VisitPlan) dto.PlanResponse {
	s := plan.Schedule
	res := dto.PlanResponse{
		PlanID:               plan.ID,
		Strategy:             string(plan.Strategy),
		Transport:            string(plan.Options.Transport),
		Date:                 plan.Options.Date.Format("2006-01-02"),
		Days:                 s.Days,
		TotalDurationMinutes: s.TotalDuration,
		TotalDistanceKm:      roundKm(s.TotalDistanceKm),
		Cached:               plan.FromCache,
		Entries:              make([]dto.PlanEntryResponse, 0, len(s.Entries)),
		Unplaceable:          s.Unplaceable,
	}
	if res.Unplaceable == nil {
		res.Unplaceable = []string{}
	}

	for _, e := range s.Entries {
		entry := dto.PlanEntryResponse{
			Order:             e.Order,
			PointID:           e.PointID,
			Address:           e.Address,
			Level:             e.Level.String(),
			Day:               e.Day,
			VisitMinutes:      e.VisitMinutes,
			TravelTimeMinutes: e.TravelTimeMinutes,
			TravelDistanceKm:  roundKm(e.TravelDistanceKm),
			Status:            string(e.Status),
		}
		if e.Placed() {
			arrival, departure := e.ArrivalTime, e.DepartureTime
			entry.Arrival = clock.Format(clock.MinuteOfDay(arrival))
			entry.Departure = clock.Format(clock.MinuteOfDay(departure))
			entry.ArrivalAt = &arrival
			entry.DepartureAt = &departure
		}
		res.Entries = append(res.Entries, entry)
	}

	return res
}

func roundKm(km float64) float64 { return math.Round(km*100) / 100 }
