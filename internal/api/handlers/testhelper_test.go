package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/readplan/internal/models"
	"github.com/hoanghai1803/readplan/internal/planner"
	"github.com/hoanghai1803/readplan/internal/storage"
)

// stubClock is a settable planner.Clock.
type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stubClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// newTestService creates a planner.Service over an in-memory SQLite store
// with migrations applied. The clock starts at 2021-01-01 12:00 UTC.
func newTestService(t *testing.T) (*planner.Service, *storage.Store, *stubClock) {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := storage.NewStore(db)
	clock := &stubClock{now: time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)}
	return planner.NewService(store, clock, nil), store, clock
}

// seedUser registers a user and returns its ID.
func seedUser(t *testing.T, svc *planner.Service, email string) string {
	t.Helper()

	user, err := svc.RegisterUser(context.Background(), "Reader", email)
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user.ID
}

// seedBook adds an unread book to userID's collection.
func seedBook(t *testing.T, svc *planner.Service, userID string, pages int) *models.Book {
	t.Helper()

	book, err := svc.AddBook(context.Background(), userID, planner.NewBookInput{
		Title:       "Book",
		Author:      "Author",
		PublishYear: 2010,
		PagesTotal:  pages,
	})
	if err != nil {
		t.Fatalf("seeding book: %v", err)
	}
	return book
}

// newRequest builds an authenticated request. A non-nil body is encoded as
// JSON; params are chi URL parameters as name/value pairs.
func newRequest(t *testing.T, method, path, userID string, body any, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	ctx := WithUserID(r.Context(), userID)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

// serve runs h against r and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// decode unmarshals the response body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v (body: %s)", err, w.Body.String())
	}
}
