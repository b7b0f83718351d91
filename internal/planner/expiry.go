package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// DaysRemaining returns the whole days from today's calendar date to the
// plan end date. ok is false when the end date cannot be parsed.
func DaysRemaining(endDate string, today time.Time) (days int, ok bool) {
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, false
	}
	return DaysBetween(CalendarDate(today), end), true
}

// IsExpired reports whether a plan ending on endDate is over at now. A plan
// is over once fewer than one day remains, so it expires on its end date.
// now is interpreted in its own location.
func IsExpired(endDate string, now time.Time) bool {
	days, ok := DaysRemaining(endDate, now)
	return !ok || days < 1
}

// ReadPlan returns the user's active plan with its books resolved.
//
// Expiry is checked here and only here: if the plan has run out, it is
// deleted, the user's link is cleared and ErrPlanExpired is returned. The
// next read then reports ErrNoActivePlan.
func (s *Service) ReadPlan(ctx context.Context, userID string) (_ *models.PlanView, err error) {
	defer func(start time.Time) { s.observe("read_plan", start, err) }(time.Now())

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.loadActivePlan(ctx, user)
	if err != nil {
		return nil, err
	}

	if IsExpired(plan.EndDate, s.clock.Now()) {
		if err := s.evict(ctx, userID, plan); err != nil {
			return nil, err
		}
		return nil, ErrPlanExpired
	}

	books, err := s.repo.ListPlanBooks(ctx, plan.ID)
	if err != nil {
		return nil, persistErr("loading plan books", err)
	}

	view := models.NewPlanView(plan, books)
	return &view, nil
}

// evict deletes an expired plan and clears the user's link in one
// transaction.
func (s *Service) evict(ctx context.Context, userID string, plan *models.Plan) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.DeletePlan(ctx, plan.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return s.repo.SetUserPlan(ctx, userID, nil)
	})
	if err != nil {
		return persistErr("evicting expired plan", err)
	}

	s.metrics.PlansExpired.Inc()
	slog.Info("evicted expired reading plan",
		"user_id", userID,
		"plan_id", plan.ID,
		"end_date", plan.EndDate,
	)
	return nil
}
