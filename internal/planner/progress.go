package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// ProgressResult is the book a progress event advanced and the plan after
// the event was recorded.
type ProgressResult struct {
	Book models.Book `json:"book"`
	Plan models.Plan `json:"planning"`
}

// ApplyProgress records pages read today against the user's plan.
//
// The first book in plan order that is not finished receives all the pages,
// clamped to its remaining pages; any excess is dropped rather than carried
// to the next book. One stats entry with the submitted page count is appended
// per call. The book and plan are written in one transaction.
func (s *Service) ApplyProgress(ctx context.Context, userID string, pages int) (_ *ProgressResult, err error) {
	defer func(start time.Time) { s.observe("apply_progress", start, err) }(time.Now())

	if pages < 1 {
		return nil, ErrInvalidPages
	}

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

	book, err := s.firstUnfinished(ctx, plan)
	if err != nil {
		return nil, err
	}

	book.PagesFinished += min(pages, book.RemainingPages())
	plan.Stats = append(plan.Stats, models.StatEntry{
		Time:       FormatStatTime(s.clock.Now()),
		PagesCount: pages,
	})

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateBook(ctx, book); err != nil {
			return err
		}
		return s.repo.UpdatePlan(ctx, plan)
	})
	if err != nil {
		return nil, persistErr("recording progress", err)
	}

	s.metrics.ProgressEvents.Inc()
	s.metrics.PagesRecorded.Add(float64(pages))
	if book.IsFinished() {
		s.metrics.BooksFinished.Inc()
	}
	slog.Info("recorded reading progress",
		"user_id", userID,
		"plan_id", plan.ID,
		"book_id", book.ID,
		"pages", pages,
		"pages_finished", book.PagesFinished,
		"pages_total", book.PagesTotal,
	)

	return &ProgressResult{Book: *book, Plan: *plan}, nil
}

// firstUnfinished scans the plan's books in stored order. Books that no
// longer exist are skipped.
func (s *Service) firstUnfinished(ctx context.Context, plan *models.Plan) (*models.Book, error) {
	for _, id := range plan.BookIDs {
		book, err := s.repo.GetBook(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, persistErr("loading plan book", err)
		}
		if !book.IsFinished() {
			return book, nil
		}
	}
	return nil, ErrPlanComplete
}
