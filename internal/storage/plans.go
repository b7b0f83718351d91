package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hoanghai1803/readplan/internal/models"
)

// CreatePlan inserts a plan together with its ordered book list and stats.
// An ID is generated if the plan has none. Callers that also link the plan
// to a user should wrap both calls in WithTx.
func (s *Store) CreatePlan(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	return s.WithTx(ctx, func(ctx context.Context) error {
		q := s.conn(ctx)
		if _, err := q.ExecContext(ctx,
			`INSERT INTO plans (id, start_date, end_date, duration, pages_per_day)
			 VALUES (?, ?, ?, ?, ?)`,
			plan.ID, plan.StartDate, plan.EndDate, plan.Duration, plan.PagesPerDay,
		); err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}

		for i, bookID := range plan.BookIDs {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO plan_books (plan_id, position, book_id) VALUES (?, ?, ?)`,
				plan.ID, i, bookID,
			); err != nil {
				return fmt.Errorf("adding book %q to plan: %w", bookID, err)
			}
		}

		return s.insertStats(ctx, plan.ID, 0, plan.Stats)
	})
}

// GetPlan returns the plan with the given ID, including its book IDs and
// stats in stored order, or ErrNotFound.
func (s *Store) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	q := s.conn(ctx)

	var plan models.Plan
	err := q.QueryRowContext(ctx,
		`SELECT id, start_date, end_date, duration, pages_per_day FROM plans WHERE id = ?`, id,
	).Scan(&plan.ID, &plan.StartDate, &plan.EndDate, &plan.Duration, &plan.PagesPerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting plan %q: %w", id, err)
	}

	plan.BookIDs, err = s.planBookIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Stats, err = s.planStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// UpdatePlan persists a plan's stats. Stats are append-only, so only entries
// beyond those already stored are inserted; the derived fields and book list
// are fixed at creation and never rewritten.
func (s *Store) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		var stored int
		err := s.conn(ctx).QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM plan_stats WHERE plan_id = p.id)
			 FROM plans p WHERE p.id = ?`, plan.ID,
		).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("counting plan stats: %w", err)
		}
		if stored > len(plan.Stats) {
			return fmt.Errorf("updating plan %q: stats may only be appended (%d stored, %d given)",
				plan.ID, stored, len(plan.Stats))
		}
		return s.insertStats(ctx, plan.ID, stored, plan.Stats[stored:])
	})
}

// DeletePlan removes a plan. Its book list and stats cascade, and any user
// linked to it has the link cleared by the foreign key.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan %q: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPlansByBook returns every plan that references the given book.
func (s *Store) FindPlansByBook(ctx context.Context, bookID string) ([]models.Plan, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT DISTINCT plan_id FROM plan_books WHERE book_id = ? ORDER BY plan_id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("finding plans by book: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning plan id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan ids: %w", err)
	}

	plans := make([]models.Plan, 0, len(ids))
	for _, id := range ids {
		plan, err := s.GetPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, nil
}

func (s *Store) insertStats(ctx context.Context, planID string, from int, stats []models.StatEntry) error {
	q := s.conn(ctx)
	for i, st := range stats {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO plan_stats (plan_id, seq, time, pages_count) VALUES (?, ?, ?, ?)`,
			planID, from+i, st.Time, st.PagesCount,
		); err != nil {
			return fmt.Errorf("appending plan stat: %w", err)
		}
	}
	return nil
}

func (s *Store) planBookIDs(ctx context.Context, planID string) ([]string, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT book_id FROM plan_books WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan books: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning plan book: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan books: %w", err)
	}
	return ids, nil
}

func (s *Store) planStats(ctx context.Context, planID string) ([]models.StatEntry, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT time, pages_count FROM plan_stats WHERE plan_id = ? ORDER BY seq`, planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan stats: %w", err)
	}
	defer rows.Close()

	stats := []models.StatEntry{}
	for rows.Next() {
		var st models.StatEntry
		if err := rows.Scan(&st.Time, &st.PagesCount); err != nil {
			return nil, fmt.Errorf("scanning plan stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan stats: %w", err)
	}
	return stats, nil
}
