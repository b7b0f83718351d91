package models

import "time"

// User owns a collection of books and at most one active plan.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PlanID    *string   `json:"planning"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasPlan reports whether the user is linked to a plan.
func (u *User) HasPlan() bool {
	return u.PlanID != nil && *u.PlanID != ""
}

// BooksInfo groups a user's books by reading state.
type BooksInfo struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	GoingToRead      []Book `json:"goingToRead"`
	CurrentlyReading []Book `json:"currentlyReading"`
	FinishedReading  []Book `json:"finishedReading"`
}
