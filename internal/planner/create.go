package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// CreatePlanInput is a request to start a new reading plan.
type CreatePlanInput struct {
	StartDate string
	EndDate   string
	BookIDs   []string
}

// CreatePlan validates the date range and candidate books, computes the
// allocation and stores the plan as the user's single active plan.
//
// Validation happens before any write: dates first (ErrInvalidDateRange),
// then each book in order (ErrInvalidBook if unknown, not owned, already
// started or listed twice). A plan already linked to the user is replaced.
func (s *Service) CreatePlan(ctx context.Context, userID string, in CreatePlanInput) (_ *models.PlanView, err error) {
	defer func(start time.Time) { s.observe("create_plan", start, err) }(time.Now())

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	duration, err := PlanDuration(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	if len(in.BookIDs) == 0 {
		return nil, errorf(ErrInvalidBook, "a plan needs at least one book")
	}

	books := make([]models.Book, 0, len(in.BookIDs))
	seen := make(map[string]bool, len(in.BookIDs))
	totalPages := 0
	for _, id := range in.BookIDs {
		if seen[id] {
			return nil, errorf(ErrInvalidBook, "book %q is listed more than once", id)
		}
		seen[id] = true

		book, err := s.ownedBook(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if book.PagesFinished != 0 {
			return nil, errorf(ErrInvalidBook, "book %q has already been started", id)
		}
		totalPages += book.PagesTotal
		books = append(books, *book)
	}

	plan := &models.Plan{
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		BookIDs:     append([]string(nil), in.BookIDs...),
		Duration:    duration,
		PagesPerDay: PagesPerDay(totalPages, duration),
		Stats:       []models.StatEntry{},
	}

	var replaced string
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if user.HasPlan() {
			replaced = *user.PlanID
			if err := s.repo.DeletePlan(ctx, replaced); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
		if err := s.repo.CreatePlan(ctx, plan); err != nil {
			return err
		}
		return s.repo.SetUserPlan(ctx, userID, &plan.ID)
	})
	if err != nil {
		return nil, persistErr("creating plan", err)
	}

	s.metrics.PlansCreated.Inc()
	slog.Info("created reading plan",
		"user_id", userID,
		"plan_id", plan.ID,
		"books", len(plan.BookIDs),
		"duration", plan.Duration,
		"pages_per_day", plan.PagesPerDay,
		"replaced_plan_id", replaced,
	)

	view := models.NewPlanView(plan, books)
	return &view, nil
}
