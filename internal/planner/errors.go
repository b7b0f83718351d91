package planner

import (
	"errors"
	"fmt"
)

// Error kinds returned by the Service. Callers should match them with
// errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidBook      = errors.New("invalid book")
	ErrNoActivePlan     = errors.New("no active plan")
	ErrPlanComplete     = errors.New("all books in the plan are finished")
	ErrPlanExpired      = errors.New("plan has already ended")
	ErrNotEligible      = errors.New("book must be finished before it can be reviewed")
	ErrPersistence      = errors.New("persistence failure")

	ErrInvalidPages  = errors.New("pages must be at least 1")
	ErrInvalidReview = errors.New("invalid review")
	ErrBookInPlan    = errors.New("book is referenced by a plan")
	ErrUnknownUser   = errors.New("unknown user")
	ErrEmailTaken    = errors.New("email is already registered")
)

// persistErr tags a storage error as ErrPersistence while keeping the
// original error in the chain.
func persistErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// errorKind maps an error to a short label used in metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrInvalidBook):
		return "invalid_book"
	case errors.Is(err, ErrNoActivePlan):
		return "no_active_plan"
	case errors.Is(err, ErrPlanComplete):
		return "plan_complete"
	case errors.Is(err, ErrPlanExpired):
		return "plan_expired"
	case errors.Is(err, ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrInvalidPages):
		return "invalid_pages"
	case errors.Is(err, ErrInvalidReview):
		return "invalid_review"
	case errors.Is(err, ErrBookInPlan):
		return "book_in_plan"
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	default:
		return "other"
	}
}

// errorf wraps kind with a formatted detail message.
func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
