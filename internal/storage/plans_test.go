package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/hoanghai1803/readplan/internal/models"
)

func seedPlan(t *testing.T, store *Store, bookIDs ...string) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		StartDate:   "2021-01-01",
		EndDate:     "2021-01-11",
		BookIDs:     bookIDs,
		Duration:    10,
		PagesPerDay: 5,
	}
	if err := store.CreatePlan(context.Background(), plan); err != nil {
		t.Fatalf("seeding plan: %v", err)
	}
	return plan
}

func TestCreatePlan_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	a := seedBook(t, store, user.ID, "A", 10)
	b := seedBook(t, store, user.ID, "B", 20)
	c := seedBook(t, store, user.ID, "C", 30)

	plan := seedPlan(t, store, c.ID, a.ID, b.ID)
	if plan.ID == "" {
		t.Fatal("CreatePlan did not assign an ID")
	}

	got, err := store.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetPlan() error: %v", err)
	}
	if got.StartDate != "2021-01-01" || got.EndDate != "2021-01-11" {
		t.Errorf("dates = %s..%s", got.StartDate, got.EndDate)
	}
	if got.Duration != 10 || got.PagesPerDay != 5 {
		t.Errorf("Duration/PagesPerDay = %d/%d, want 10/5", got.Duration, got.PagesPerDay)
	}
	want := []string{c.ID, a.ID, b.ID}
	if len(got.BookIDs) != len(want) {
		t.Fatalf("BookIDs = %v, want %v", got.BookIDs, want)
	}
	for i := range want {
		if got.BookIDs[i] != want[i] {
			t.Errorf("BookIDs[%d] = %s, want %s", i, got.BookIDs[i], want[i])
		}
	}
	if got.Stats == nil || len(got.Stats) != 0 {
		t.Errorf("Stats = %v, want empty non-nil", got.Stats)
	}

	books, err := store.ListPlanBooks(ctx, plan.ID)
	if err != nil {
		t.Fatalf("ListPlanBooks() error: %v", err)
	}
	if len(books) != 3 || books[0].ID != c.ID || books[2].ID != b.ID {
		t.Errorf("ListPlanBooks() not in plan order: %+v", books)
	}
}

func TestCreatePlan_UnknownBookRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan := &models.Plan{ID: "p1", StartDate: "2021-01-01", EndDate: "2021-01-02", BookIDs: []string{"ghost"}, Duration: 1}
	if err := store.CreatePlan(ctx, plan); err == nil {
		t.Fatal("CreatePlan() accepted an unknown book")
	}
	if _, err := store.GetPlan(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPlan() after failed create error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePlan_AppendsStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	book := seedBook(t, store, user.ID, "A", 100)
	plan := seedPlan(t, store, book.ID)

	plan.Stats = append(plan.Stats, models.StatEntry{Time: "2021-1-2 8:00", PagesCount: 12})
	if err := store.UpdatePlan(ctx, plan); err != nil {
		t.Fatalf("first UpdatePlan() error: %v", err)
	}
	plan.Stats = append(plan.Stats, models.StatEntry{Time: "2021-1-3 21:45", PagesCount: 7})
	if err := store.UpdatePlan(ctx, plan); err != nil {
		t.Fatalf("second UpdatePlan() error: %v", err)
	}
	// Saving again without new entries is a no-op.
	if err := store.UpdatePlan(ctx, plan); err != nil {
		t.Fatalf("repeat UpdatePlan() error: %v", err)
	}

	got, err := store.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetPlan() error: %v", err)
	}
	if len(got.Stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(got.Stats))
	}
	if got.Stats[0].PagesCount != 12 || got.Stats[1].Time != "2021-1-3 21:45" {
		t.Errorf("Stats = %+v", got.Stats)
	}
}

func TestUpdatePlan_RejectsTruncatedStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	book := seedBook(t, store, user.ID, "A", 100)
	plan := seedPlan(t, store, book.ID)

	plan.Stats = []models.StatEntry{{Time: "2021-1-2 8:00", PagesCount: 1}, {Time: "2021-1-2 9:00", PagesCount: 2}}
	if err := store.UpdatePlan(ctx, plan); err != nil {
		t.Fatalf("UpdatePlan() error: %v", err)
	}

	plan.Stats = plan.Stats[:1]
	if err := store.UpdatePlan(ctx, plan); err == nil {
		t.Fatal("UpdatePlan() accepted a shorter history")
	}
}

func TestUpdatePlan_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdatePlan(context.Background(), &models.Plan{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdatePlan() error = %v, want ErrNotFound", err)
	}
}

func TestDeletePlan_ClearsUserLink(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	book := seedBook(t, store, user.ID, "A", 100)
	plan := seedPlan(t, store, book.ID)

	if err := store.SetUserPlan(ctx, user.ID, &plan.ID); err != nil {
		t.Fatalf("SetUserPlan() error: %v", err)
	}
	if err := store.DeletePlan(ctx, plan.ID); err != nil {
		t.Fatalf("DeletePlan() error: %v", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser() error: %v", err)
	}
	if got.PlanID != nil {
		t.Errorf("PlanID = %q after plan deletion, want nil", *got.PlanID)
	}
	if _, err := store.GetBook(ctx, book.ID); err != nil {
		t.Errorf("book removed with plan: %v", err)
	}
	if err := store.DeletePlan(ctx, plan.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeletePlan() error = %v, want ErrNotFound", err)
	}
}

func TestFindPlansByBook(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	shared := seedBook(t, store, user.ID, "Shared", 100)
	other := seedBook(t, store, user.ID, "Other", 100)
	loose := seedBook(t, store, user.ID, "Loose", 100)

	p1 := seedPlan(t, store, shared.ID)
	p2 := seedPlan(t, store, other.ID, shared.ID)

	plans, err := store.FindPlansByBook(ctx, shared.ID)
	if err != nil {
		t.Fatalf("FindPlansByBook() error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	found := map[string]bool{}
	for _, p := range plans {
		found[p.ID] = true
	}
	if !found[p1.ID] || !found[p2.ID] {
		t.Errorf("FindPlansByBook() = %v, want %s and %s", found, p1.ID, p2.ID)
	}

	plans, err = store.FindPlansByBook(ctx, loose.ID)
	if err != nil {
		t.Fatalf("FindPlansByBook(loose) error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("got %d plans for unplanned book, want 0", len(plans))
	}
}

func TestDeleteBook_BlockedByPlanReference(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, store, "u1")
	book := seedBook(t, store, user.ID, "A", 100)
	seedPlan(t, store, book.ID)

	if err := store.DeleteBook(ctx, book.ID); err == nil {
		t.Fatal("DeleteBook() removed a book that a plan references")
	}
}
