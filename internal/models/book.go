package models

// Book is a single book in a user's collection.
type Book struct {
	ID            string  `json:"_id"`
	OwnerID       string  `json:"-"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PublishYear   int     `json:"publishYear"`
	PagesTotal    int     `json:"pagesTotal"`
	PagesFinished int     `json:"pagesFinished"`
	Rating        *int    `json:"rating,omitempty"`
	Feedback      *string `json:"feedback,omitempty"`
}

// IsFinished reports whether every page of the book has been read.
func (b *Book) IsFinished() bool {
	return b.PagesFinished >= b.PagesTotal
}

// RemainingPages returns how many pages are left to read.
func (b *Book) RemainingPages() int {
	if b.IsFinished() {
		return 0
	}
	return b.PagesTotal - b.PagesFinished
}
