// Package planner implements the reading plan engine: plan creation and page
// allocation, progress application, lazy expiry on read, the review gate and
// book classification.
//
// Every mutation of a user's plan runs under a per-user exclusive section and
// every multi-row write runs inside one storage transaction.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// UserStore is the identity side of persistence: users and their plan link.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetUserPlan(ctx context.Context, userID string, planID *string) error
}

// BookStore holds book records.
type BookStore interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id string) (*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooksByOwner(ctx context.Context, ownerID string) ([]models.Book, error)
	ListPlanBooks(ctx context.Context, planID string) ([]models.Book, error)
}

// PlanRepository holds plans keyed by plan ID.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan *models.Plan) error
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	UpdatePlan(ctx context.Context, plan *models.Plan) error
	DeletePlan(ctx context.Context, id string) error
	FindPlansByBook(ctx context.Context, bookID string) ([]models.Plan, error)
}

// Repository is everything the Service persists through. WithTx must make
// calls that use the ctx handed to fn part of one atomic unit.
type Repository interface {
	UserStore
	BookStore
	PlanRepository
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the reading plan engine.
type Service struct {
	repo    Repository
	clock   Clock
	metrics *Metrics
	locks   keyedMutex
}

// NewService creates a Service. A nil metrics gets an unregistered set.
func NewService(repo Repository, clock Clock, metrics *Metrics) *Service {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		repo:    repo,
		clock:   clock,
		metrics: metrics,
	}
}

// observe records the latency and, on failure, the error kind of op.
func (s *Service) observe(op string, start time.Time, err error) {
	s.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Errors.WithLabelValues(op, errorKind(err)).Inc()
	}
}

// loadUser fetches the caller, mapping a missing record to ErrUnknownUser.
func (s *Service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, persistErr("loading user", err)
	}
	return user, nil
}

// ownedBook fetches a book the caller owns. Unknown and foreign books are
// both reported as ErrInvalidBook.
func (s *Service) ownedBook(ctx context.Context, userID, bookID string) (*models.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errorf(ErrInvalidBook, "book %q does not exist", bookID)
	}
	if err != nil {
		return nil, persistErr("loading book", err)
	}
	if book.OwnerID != userID {
		return nil, errorf(ErrInvalidBook, "book %q is not in your collection", bookID)
	}
	return book, nil
}

// loadActivePlan returns the plan linked to user. A link to a plan that no
// longer exists is cleared and reported as ErrNoActivePlan.
func (s *Service) loadActivePlan(ctx context.Context, user *models.User) (*models.Plan, error) {
	if !user.HasPlan() {
		return nil, ErrNoActivePlan
	}
	plan, err := s.repo.GetPlan(ctx, *user.PlanID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := s.repo.SetUserPlan(ctx, user.ID, nil); err != nil {
			return nil, persistErr("clearing dangling plan link", err)
		}
		return nil, ErrNoActivePlan
	}
	if err != nil {
		return nil, persistErr("loading plan", err)
	}
	return plan, nil
}
