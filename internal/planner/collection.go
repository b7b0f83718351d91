package planner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// Book bounds.
const (
	MinPagesTotal = 1
	MaxPagesTotal = 5000
)

// NewBookInput describes a book to add to a collection.
type NewBookInput struct {
	Title       string
	Author      string
	PublishYear int
	PagesTotal  int
}

// RegisterUser creates a user with no books and no plan.
func (s *Service) RegisterUser(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, errorf(ErrEmailTaken, "%s", user.Email)
		}
		return nil, persistErr("registering user", err)
	}
	slog.Info("registered user", "user_id", user.ID)
	return s.loadUser(ctx, user.ID)
}

// User returns the caller's record, or ErrUnknownUser.
func (s *Service) User(ctx context.Context, userID string) (*models.User, error) {
	return s.loadUser(ctx, userID)
}

// AddBook adds an unread book to the user's collection.
func (s *Service) AddBook(ctx context.Context, userID string, in NewBookInput) (*models.Book, error) {
	if in.PagesTotal < MinPagesTotal || in.PagesTotal > MaxPagesTotal {
		return nil, errorf(ErrInvalidBook, "pagesTotal %d must be between %d and %d", in.PagesTotal, MinPagesTotal, MaxPagesTotal)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, errorf(ErrInvalidBook, "title and author are required")
	}

	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	book := &models.Book{
		OwnerID:       userID,
		Title:         in.Title,
		Author:        in.Author,
		PublishYear:   in.PublishYear,
		PagesTotal:    in.PagesTotal,
		PagesFinished: 0,
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, persistErr("adding book", err)
	}
	return book, nil
}

// Book returns a book from the user's collection.
func (s *Service) Book(ctx context.Context, userID, bookID string) (*models.Book, error) {
	return s.ownedBook(ctx, userID, bookID)
}

// DeleteBook removes a book from the user's collection. Books referenced by
// any plan cannot be deleted.
func (s *Service) DeleteBook(ctx context.Context, userID, bookID string) (err error) {
	defer func(start time.Time) { s.observe("delete_book", start, err) }(time.Now())

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.ownedBook(ctx, userID, bookID); err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		plans, err := s.repo.FindPlansByBook(ctx, bookID)
		if err != nil {
			return err
		}
		if len(plans) > 0 {
			return errorf(ErrBookInPlan, "book %q is in %d plan(s)", bookID, len(plans))
		}
		return s.repo.DeleteBook(ctx, bookID)
	})
	if err != nil && !errors.Is(err, ErrBookInPlan) {
		return persistErr("deleting book", err)
	}
	if err == nil {
		slog.Info("deleted book", "user_id", userID, "book_id", bookID)
	}
	return err
}
