package handlers

import (
	"net/http"

	"github.com/hoanghai1803/readplan/internal/planner"
)

// CreatePlan handles POST /api/planning. It replaces any plan the caller
// already has. Every book must be owned by the caller and unread, and a book
// ID may appear only once in "books"; otherwise the response is 400.
func CreatePlan(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPlanRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		view, err := svc.CreatePlan(r.Context(), UserID(r), planner.CreatePlanInput{
			StartDate: body.StartDate,
			EndDate:   body.EndDate,
			BookIDs:   body.Books,
		})
		if err != nil {
			writeServiceError(w, err, "create plan")
			return
		}

		writeJSON(w, http.StatusCreated, view)
	}
}

// ApplyProgress handles PATCH /api/planning. The response is the advanced
// book and the updated plan: {"book": ..., "planning": ...}.
func ApplyProgress(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body progressRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.ApplyProgress(r.Context(), UserID(r), body.Pages)
		if err != nil {
			writeServiceError(w, err, "record progress")
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}

// ReadPlan handles GET /api/planning. An expired plan is removed on this
// request and reported as 403.
func ReadPlan(svc *planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ReadPlan(r.Context(), UserID(r))
		if err != nil {
			writeServiceError(w, err, "get plan")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"planning": view})
	}
}
