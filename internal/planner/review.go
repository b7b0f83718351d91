package planner

import (
	"context"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
)

// Review bounds.
const (
	MinRating         = 0
	MaxRating         = 5
	MaxFeedbackLength = 3000
)

// AddReview sets the rating and feedback of a finished book the user owns.
// Repeated calls overwrite the previous review.
func (s *Service) AddReview(ctx context.Context, userID, bookID string, rating int, feedback string) (_ *models.Book, err error) {
	defer func(start time.Time) { s.observe("add_review", start, err) }(time.Now())

	if rating < MinRating || rating > MaxRating {
		return nil, errorf(ErrInvalidReview, "rating %d must be between %d and %d", rating, MinRating, MaxRating)
	}
	if feedback == "" || len([]rune(feedback)) > MaxFeedbackLength {
		return nil, errorf(ErrInvalidReview, "feedback must be 1 to %d characters", MaxFeedbackLength)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	book, err := s.ownedBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if book.PagesFinished != book.PagesTotal {
		return nil, errorf(ErrNotEligible, "%d of %d pages read", book.PagesFinished, book.PagesTotal)
	}

	book.Rating = &rating
	book.Feedback = &feedback
	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, persistErr("saving review", err)
	}
	return book, nil
}
