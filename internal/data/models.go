// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/aoideee/books-api/internal/validator"
)

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books BookModel
}

// NewModels constructs a Models value wired up to the given database connection pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Books: BookModel{DB: db},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// Filters holds pagination and sorting parameters extracted from URL query strings.
type Filters struct {
	Page         int      // Current page number (1-indexed)
	PageSize     int      // Number of records per page
	Sort         string   // Column name to sort by (prefix with "-" for DESC)
	SortSafeList []string // Allowed sort columns to prevent SQL injection
}

// ValidateFilters checks paging and sort parameters.
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= 100, "page_size", "must be a maximum of 100")
	v.Check(validator.PermittedValue(f.Sort, f.SortSafeList...), "sort", "invalid sort value")
}

// sortColumn returns the validated column name for ORDER BY, defaulting to id.
func (f Filters) sortColumn() string {
	for _, safe := range f.SortSafeList {
		if f.Sort == safe {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	return FieldID
}

// sortDirection returns "ASC" or "DESC" based on the Sort prefix.
func (f Filters) sortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

func (f Filters) limit() int  { return f.PageSize }
func (f Filters) offset() int { return (f.Page - 1) * f.PageSize }

// Metadata contains pagination information returned alongside list responses.
type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// calculateMetadata computes page metadata from total record count and filter values.
func calculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records. Queries use $N
// placeholders, understood by both the postgres and sqlite drivers.
type BookModel struct {
	DB  *sql.DB
	Now func() time.Time // clock for created_at/updated_at; time.Now when nil
}

func (m BookModel) now() time.Time {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	// Postgres keeps microseconds; truncate so the struct matches the row.
	return now().UTC().Truncate(time.Microsecond)
}

// Insert adds a new book record to the database.
// After a successful insert, the database-assigned id and the
// created_at/updated_at values are written back into the book struct.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, author, year, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	now := m.now()

	err := m.DB.QueryRowContext(ctx, query,
		book.Title,
		book.Author,
		nullInt(book.Year),
		nullFloat(book.Rating),
		now,
		now,
	).Scan(&book.ID)
	if err != nil {
		return errors.Wrap(err, "insert book")
	}

	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, author, year, rating, created_at, updated_at
		FROM books
		WHERE id = $1`

	var book Book
	err := scanBook(m.DB.QueryRowContext(ctx, query, id), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, errors.Wrapf(err, "get book %d", id)
		}
	}
	return &book, nil
}

// GetAll retrieves a paginated, sorted list of books.
// It uses a COUNT(*) OVER() window function so only one round-trip is needed.
func (m BookModel) GetAll(ctx context.Context, filters Filters) ([]*Book, Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, title, author, year, rating, created_at, updated_at
		FROM books
		ORDER BY %s %s, id ASC
		LIMIT $1 OFFSET $2`, filters.sortColumn(), filters.sortDirection())

	rows, err := m.DB.QueryContext(ctx, query, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, errors.Wrap(err, "list books")
	}
	defer rows.Close()

	totalRecords := 0
	books := []*Book{}

	for rows.Next() {
		var (
			book             Book
			year             sql.NullInt64
			rating           sql.NullFloat64
			created, updated timestamp
		)
		err := rows.Scan(
			&totalRecords, // same value on every row
			&book.ID,
			&book.Title,
			&book.Author,
			&year,
			&rating,
			&created,
			&updated,
		)
		if err != nil {
			return nil, Metadata{}, errors.Wrap(err, "scan book")
		}
		book.Year, book.Rating = intPtr(year), floatPtr(rating)
		book.CreatedAt, book.UpdatedAt = created.Time, updated.Time
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, Metadata{}, errors.WithStack(err)
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// Count returns the number of stored books.
func (m BookModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count books")
	}
	return n, nil
}

// Update saves the writable fields of book back to the database and
// refreshes book.UpdatedAt. Returns ErrRecordNotFound if the row is gone.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, year = $3, rating = $4, updated_at = $5
		WHERE id = $6`

	now := m.now()

	result, err := m.DB.ExecContext(ctx, query,
		book.Title,
		book.Author,
		nullInt(book.Year),
		nullFloat(book.Rating),
		now,
		book.ID,
	)
	if err != nil {
		return errors.Wrapf(err, "update book %d", book.ID)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	book.UpdatedAt = now
	return nil
}

// Delete removes the book with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete book %d", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func scanBook(row *sql.Row, book *Book) error {
	var (
		year             sql.NullInt64
		rating           sql.NullFloat64
		created, updated timestamp
	)
	err := row.Scan(&book.ID, &book.Title, &book.Author, &year, &rating, &created, &updated)
	if err != nil {
		return err
	}
	book.Year, book.Rating = intPtr(year), floatPtr(rating)
	book.CreatedAt, book.UpdatedAt = created.Time, updated.Time
	return nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}
