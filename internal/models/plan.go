package models

// StatEntry is one progress submission recorded on a plan.
type StatEntry struct {
	Time       string `json:"time"`
	PagesCount int    `json:"pagesCount"`
}

// Plan is a time-boxed reading schedule over an ordered set of books.
// BookIDs order is the order in which progress is allocated.
type Plan struct {
	ID          string      `json:"_id"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	BookIDs     []string    `json:"books"`
	Duration    int         `json:"duration"`
	PagesPerDay int         `json:"pagesPerDay"`
	Stats       []StatEntry `json:"stats"`
}

// PlanView is a plan with its books resolved, in plan order.
type PlanView struct {
	ID          string      `json:"_id"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Books       []Book      `json:"books"`
	Duration    int         `json:"duration"`
	PagesPerDay int         `json:"pagesPerDay"`
	Stats       []StatEntry `json:"stats"`
}

// NewPlanView joins a plan with its resolved books.
func NewPlanView(p *Plan, books []Book) PlanView {
	stats := p.Stats
	if stats == nil {
		stats = []StatEntry{}
	}
	if books == nil {
		books = []Book{}
	}
	return PlanView{
		ID:          p.ID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Books:       books,
		Duration:    p.Duration,
		PagesPerDay: p.PagesPerDay,
		Stats:       stats,
	}
}
