package planner

import (
	"context"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
)

// Category is the reading state a book is displayed under.
type Category int

const (
	GoingToRead Category = iota
	CurrentlyReading
	Finished
)

func (c Category) String() string {
	switch c {
	case GoingToRead:
		return "goingToRead"
	case CurrentlyReading:
		return "currentlyReading"
	case Finished:
		return "finishedReading"
	default:
		return "unknown"
	}
}

// Classify places a book in exactly one category. A finished book stays
// finished even while a plan still references it.
func Classify(book models.Book, inPlan bool) Category {
	switch {
	case book.PagesFinished >= book.PagesTotal:
		return Finished
	case book.PagesFinished > 0, inPlan:
		return CurrentlyReading
	default:
		return GoingToRead
	}
}

// BooksInfo groups every book the user owns by reading state.
func (s *Service) BooksInfo(ctx context.Context, userID string) (_ *models.BooksInfo, err error) {
	defer func(start time.Time) { s.observe("books_info", start, err) }(time.Now())

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	books, err := s.repo.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, persistErr("listing books", err)
	}

	info := &models.BooksInfo{
		Name:             user.Name,
		Email:            user.Email,
		GoingToRead:      []models.Book{},
		CurrentlyReading: []models.Book{},
		FinishedReading:  []models.Book{},
	}
	for _, book := range books {
		plans, err := s.repo.FindPlansByBook(ctx, book.ID)
		if err != nil {
			return nil, persistErr("finding plans for book", err)
		}
		switch Classify(book, len(plans) > 0) {
		case GoingToRead:
			info.GoingToRead = append(info.GoingToRead, book)
		case CurrentlyReading:
			info.CurrentlyReading = append(info.CurrentlyReading, book)
		case Finished:
			info.FinishedReading = append(info.FinishedReading, book)
		}
	}
	return info, nil
}
