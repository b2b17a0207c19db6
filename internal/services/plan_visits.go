package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"visit-route-planner/internal/domain"
	"visit-route-planner/internal/platform/obs"
	"visit-route-planner/internal/ports"

	"github.com/google/uuid"
)

type PlanVisitsRequest struct {
	Strategy domain.Strategy
	Options  ScheduleOptions
}

// VisitPlan is one ordered and scheduled visiting plan.
type VisitPlan struct {
	ID        string
	Strategy  domain.Strategy
	Options   ScheduleOptions
	Schedule  *domain.Schedule
	FromCache bool
}

// PlanVisits loads the stored visit points, orders them with req.Strategy and
// builds their schedule. When cache is non-nil, schedules are looked up and
// stored under a fingerprint of the points and options; cache failures are
// logged and never fail the plan.
func PlanVisits(
	ctx context.Context,
	req PlanVisitsRequest,
	repo ports.VisitRepository,
	cache ports.PlanCache,
) (_ *VisitPlan, err error) {
	defer obs.Time(ctx, "plan.visits")(&err)

	if !req.Strategy.Valid() {
		return nil, fmt.Errorf("plan visits: strategy %q: %w", req.Strategy, ErrUnknownStrategy)
	}
	opts := req.Options.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("plan visits: %w", err)
	}

	points, err := repo.ListVisitPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan visits: list visit points: %w", err)
	}

	plan := &VisitPlan{
		ID:       uuid.NewString(),
		Strategy: req.Strategy,
		Options:  opts,
	}

	key := planKey(req.Strategy, opts, points)
	if cache != nil {
		cached, cerr := cache.GetSchedule(ctx, key)
		switch {
		case cerr == nil:
			plan.Schedule = cached
			plan.FromCache = true
			return plan, nil
		case !errors.Is(cerr, ports.ErrCacheMiss):
			log.Printf("op=plan.visits cache_get err=%v", cerr)
		}
	}

	route, err := Order(points, req.Strategy)
	if err != nil {
		return nil, fmt.Errorf("plan visits: %w", err)
	}
	plan.Schedule = BuildSchedule(route, opts)

	if cache != nil {
		if perr := cache.PutSchedule(ctx, key, plan.Schedule); perr != nil {
			log.Printf("op=plan.visits cache_put err=%v", perr)
		}
	}

	return plan, nil
}

// planKey fingerprints everything a schedule depends on.
func planKey(strategy domain.Strategy, opts ScheduleOptions, points []domain.VisitPoint) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d|%d|%d|",
		strategy, opts.Transport, opts.Date.Format("2006-01-02"),
		opts.DayStart, opts.DayEnd, opts.LunchStart, opts.LunchEnd)
	// VisitPoint is plain data, Encode cannot fail.
	_ = json.NewEncoder(h).Encode(points)
	return "plan:" + hex.EncodeToString(h.Sum(nil))
}
