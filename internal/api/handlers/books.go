package handlers

import (
	"errors"
	"net/http"

	"github.com/hoanghai1803/readplan/internal/planner"
)

// AddBook handles POST /api/books. It adds an unread book to the caller's
// collection and responds with {"newBook": book}.
func AddBook(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addBookRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		book, err := svc.AddBook(r.Context(), UserID(r), planner.NewBookInput{
			Title:       body.Title,
			Author:      body.Author,
			PublishYear: body.PublishYear,
			PagesTotal:  body.PagesTotal,
		})
		if err != nil {
			writeServiceError(w, err, "add book")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"newBook": book})
	}
}

// GetBook handles GET /api/books/{id}.
func GetBook(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		book, err := svc.Book(r.Context(), UserID(r), id)
		if errors.Is(err, planner.ErrInvalidBook) {
			writeError(w, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			writeServiceError(w, err, "get book")
			return
		}

		writeJSON(w, http.StatusOK, book)
	}
}

// DeleteBook handles DELETE /api/books/{id}. Books referenced by a plan are
// refused with 409.
func DeleteBook(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.DeleteBook(r.Context(), UserID(r), id); err != nil {
			writeServiceError(w, err, "delete book")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// AddReview handles PATCH /api/books/review/{id}. Only finished books can be
// reviewed; anything else is 403.
func AddReview(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body reviewRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		book, err := svc.AddReview(r.Context(), UserID(r), id, *body.Rating, body.Feedback)
		if err != nil {
			writeServiceError(w, err, "save review")
			return
		}

		writeJSON(w, http.StatusOK, book)
	}
}
