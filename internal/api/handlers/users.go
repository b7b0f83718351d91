package handlers

import (
	"net/http"

	"github.com/hoanghai1803/readplan/internal/planner"
)

// RegisterUser handles POST /api/users. It creates a user with an empty
// collection and no plan. The returned _id is the value clients send in the
// X-User-ID header afterwards.
func RegisterUser(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerUserRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := svc.RegisterUser(r.Context(), body.Name, body.Email)
		if err != nil {
			writeServiceError(w, err, "register user")
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// CurrentUser handles GET /api/users/me.
func CurrentUser(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.User(r.Context(), UserID(r))
		if err != nil {
			writeServiceError(w, err, "get user")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// BooksInfo handles GET /api/users/me/books. It returns the caller's books
// grouped into goingToRead, currentlyReading and finishedReading.
func BooksInfo(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.BooksInfo(r.Context(), UserID(r))
		if err != nil {
			writeServiceError(w, err, "get books")
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}
