package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hoanghai1803/readplan/internal/models"
)

// CreateUser inserts a new user. An ID is generated if the user has none.
// Returns ErrDuplicate if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`,
		user.ID, user.Name, user.Email,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("email %q: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given ID, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var (
		user      models.User
		planID    sql.NullString
		createdAt string
	)
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, email, plan_id, created_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &planID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}
	user.PlanID = nullStringToPtr(planID)
	user.CreatedAt = parseTime(createdAt)
	return &user, nil
}

// SetUserPlan overwrites the user's plan link. A nil planID clears it.
func (s *Store) SetUserPlan(ctx context.Context, userID string, planID *string) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE users SET plan_id = ? WHERE id = ?`, planID, userID)
	if err != nil {
		return fmt.Errorf("linking plan to user %q: %w", userID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
