package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/planner"
)

func TestPlanningLifecycle(t *testing.T) {
	svc, _, clock := newTestService(t)
	userID := seedUser(t, svc, "ann@example.com")
	book := seedBook(t, svc, userID, 10)

	// No plan yet.
	w := serve(ReadPlan(svc), newRequest(t, http.MethodGet, "/api/planning", userID, nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("before create: got status %d, want %d", w.Code, http.StatusForbidden)
	}

	create := map[string]any{"startDate": "2020-12-31", "endDate": "2021-01-05", "books": []string{book.ID}}
	w = serve(CreatePlan(svc), newRequest(t, http.MethodPost, "/api/planning", userID, create))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var view models.PlanView
	decode(t, w, &view)
	if view.Duration != 5 || view.PagesPerDay != 2 {
		t.Errorf("duration/pagesPerDay = %d/%d, want 5/2", view.Duration, view.PagesPerDay)
	}
	if len(view.Books) != 1 || view.Books[0].ID != book.ID {
		t.Errorf("books = %+v", view.Books)
	}

	w = serve(ApplyProgress(svc), newRequest(t, http.MethodPatch, "/api/planning", userID, map[string]int{"pages": 10}))
	if w.Code != http.StatusOK {
		t.Fatalf("progress: got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var progress planner.ProgressResult
	decode(t, w, &progress)
	if progress.Book.PagesFinished != 10 {
		t.Errorf("book.pagesFinished = %d, want 10", progress.Book.PagesFinished)
	}
	if len(progress.Plan.Stats) != 1 || progress.Plan.Stats[0].Time != "2021-1-1 12:00" {
		t.Errorf("planning.stats = %+v", progress.Plan.Stats)
	}

	// Everything is read.
	w = serve(ApplyProgress(svc), newRequest(t, http.MethodPatch, "/api/planning", userID, map[string]int{"pages": 1}))
	if w.Code != http.StatusForbidden {
		t.Errorf("complete plan: got status %d, want %d", w.Code, http.StatusForbidden)
	}

	w = serve(ReadPlan(svc), newRequest(t, http.MethodGet, "/api/planning", userID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("read: got status %d, want %d", w.Code, http.StatusOK)
	}
	var wrapped struct {
		Planning models.PlanView `json:"planning"`
	}
	decode(t, w, &wrapped)
	if wrapped.Planning.ID != view.ID {
		t.Errorf("planning._id = %q, want %q", wrapped.Planning.ID, view.ID)
	}

	// Past the end date the plan is evicted on read.
	clock.Set(time.Date(2021, 1, 6, 9, 0, 0, 0, time.UTC))
	w = serve(ReadPlan(svc), newRequest(t, http.MethodGet, "/api/planning", userID, nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("expired: got status %d, want %d", w.Code, http.StatusForbidden)
	}
	w = serve(ReadPlan(svc), newRequest(t, http.MethodGet, "/api/planning", userID, nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("after eviction: got status %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := seedUser(t, svc, "ann@example.com")
	book := seedBook(t, svc, userID, 10)
	foreign := seedBook(t, svc, seedUser(t, svc, "bob@example.com"), 10)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"no books", map[string]any{"startDate": "2021-01-01", "endDate": "2021-01-05", "books": []string{}}},
		{"bad date format", map[string]any{"startDate": "01.01.2021", "endDate": "2021-01-05", "books": []string{book.ID}}},
		{"end before start", map[string]any{"startDate": "2021-01-05", "endDate": "2021-01-01", "books": []string{book.ID}}},
		{"same day", map[string]any{"startDate": "2021-01-05", "endDate": "2021-01-05", "books": []string{book.ID}}},
		{"malformed book id", map[string]any{"startDate": "2021-01-01", "endDate": "2021-01-05", "books": []string{"abc"}}},
		{"book listed twice", map[string]any{"startDate": "2021-01-01", "endDate": "2021-01-05", "books": []string{book.ID, book.ID}}},
		{"foreign book", map[string]any{"startDate": "2021-01-01", "endDate": "2021-01-05", "books": []string{foreign.ID}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(CreatePlan(svc), newRequest(t, http.MethodPost, "/api/planning", userID, tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestApplyProgress_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := seedUser(t, svc, "ann@example.com")

	for _, body := range []any{map[string]int{"pages": 0}, map[string]int{"pages": -4}, `{"pages":"ten"}`} {
		w := serve(ApplyProgress(svc), newRequest(t, http.MethodPatch, "/api/planning", userID, body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: got status %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}

	w := serve(ApplyProgress(svc), newRequest(t, http.MethodPatch, "/api/planning", userID, map[string]int{"pages": 3}))
	if w.Code != http.StatusForbidden {
		t.Errorf("no plan: got status %d, want %d", w.Code, http.StatusForbidden)
	}
}
