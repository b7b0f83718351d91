package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hoanghai1803/readplan/internal/models"
)

const bookColumns = `id, owner_id, title, author, publish_year, pages_total, pages_finished, rating, feedback`

// CreateBook inserts a new book. An ID is generated if the book has none.
func (s *Store) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.OwnerID, book.Title, book.Author, book.PublishYear,
		book.PagesTotal, book.PagesFinished, book.Rating, book.Feedback,
	)
	if err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	return nil
}

// GetBook returns the book with the given ID, or ErrNotFound.
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	row := s.conn(ctx).QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting book %q: %w", id, err)
	}
	return book, nil
}

// UpdateBook writes the mutable fields of a book (progress and review).
func (s *Store) UpdateBook(ctx context.Context, book *models.Book) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, publish_year = ?, pages_total = ?,
			pages_finished = ?, rating = ?, feedback = ?
		 WHERE id = ?`,
		book.Title, book.Author, book.PublishYear, book.PagesTotal,
		book.PagesFinished, book.Rating, book.Feedback, book.ID,
	)
	if err != nil {
		return fmt.Errorf("updating book %q: %w", book.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBook removes a book by ID.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting book %q: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBooksByOwner returns every book owned by the user, oldest first.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]models.Book, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE owner_id = ? ORDER BY created_at, rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating book rows: %w", err)
	}
	return books, nil
}

// ListPlanBooks returns the books referenced by a plan in plan order.
func (s *Store) ListPlanBooks(ctx context.Context, planID string) ([]models.Book, error) {
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT b.id, b.owner_id, b.title, b.author, b.publish_year, b.pages_total,
				b.pages_finished, b.rating, b.feedback
		 FROM plan_books pb
		 JOIN books b ON b.id = pb.book_id
		 WHERE pb.plan_id = ?
		 ORDER BY pb.position`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan book row: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan book rows: %w", err)
	}
	return books, nil
}

func scanBook(row scanner) (*models.Book, error) {
	var (
		book     models.Book
		rating   sql.NullInt64
		feedback sql.NullString
	)
	if err := row.Scan(
		&book.ID, &book.OwnerID, &book.Title, &book.Author, &book.PublishYear,
		&book.PagesTotal, &book.PagesFinished, &rating, &feedback,
	); err != nil {
		return nil, err
	}
	book.Rating = nullInt64ToIntPtr(rating)
	book.Feedback = nullStringToPtr(feedback)
	return &book, nil
}
