// Package data provides the data models and database interaction logic
// for the books resource.
package data

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aoideee/books-api/internal/validator"
)

// Book attribute names, as they appear in payloads, policies and responses.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldYear      = "year"
	FieldRating    = "rating"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// BookAttributes is the full, ordered attribute set of a Book. No field
// policy may name anything outside of it.
var BookAttributes = []string{
	FieldID, FieldTitle, FieldAuthor, FieldYear, FieldRating, FieldCreatedAt, FieldUpdatedAt,
}

// Minimum length, in characters, of a book title and author.
const minNameLength = 3

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table. Year and Rating are
// optional and stay nil when they were never supplied.
type Book struct {
	ID        int64
	Title     string
	Author    string
	Year      *int64
	Rating    *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attribute returns the JSON-ready value of the named attribute. Unknown
// names and unset optional attributes yield nil, which encodes as null.
func (b *Book) Attribute(name string) any {
	switch name {
	case FieldID:
		if b.ID == 0 {
			return nil
		}
		return b.ID
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldYear:
		if b.Year == nil {
			return nil
		}
		return *b.Year
	case FieldRating:
		if b.Rating == nil {
			return nil
		}
		return *b.Rating
	case FieldCreatedAt:
		return formatTimestamp(b.CreatedAt)
	case FieldUpdatedAt:
		return formatTimestamp(b.UpdatedAt)
	}
	return nil
}

// Assign casts raw onto the named writable attribute. id and the timestamps
// are owned by the store and are never assigned from input; Assign reports
// false for them, for unknown names and for object or array values, which
// leave the attribute untouched.
func (b *Book) Assign(name string, raw any) bool {
	if !isScalar(raw) {
		return false
	}
	switch name {
	case FieldTitle:
		b.Title = castString(raw)
	case FieldAuthor:
		b.Author = castString(raw)
	case FieldYear:
		b.Year = castInt(raw)
	case FieldRating:
		b.Rating = castFloat(raw)
	default:
		return false
	}
	return true
}

// ValidateBook records every rule a book violates. Blank and length checks
// run independently, so a blank title reports both failures.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(validator.NotBlank(book.Title), FieldTitle, validator.MsgBlank)
	v.Check(validator.MinChars(book.Title, minNameLength), FieldTitle, validator.MsgTooShort(minNameLength))

	v.Check(validator.NotBlank(book.Author), FieldAuthor, validator.MsgBlank)
	v.Check(validator.MinChars(book.Author, minNameLength), FieldAuthor, validator.MsgTooShort(minNameLength))
}

// timestampLayout renders ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}

// isScalar reports whether raw is a JSON/form scalar rather than a nested
// object or list.
func isScalar(raw any) bool {
	switch raw.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func castString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(raw)
}

func castInt(raw any) *int64 {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return &i
		}
		if f, err := v.Float64(); err == nil {
			return truncate(f)
		}
	case float64:
		return truncate(v)
	case int64:
		return &v
	case int:
		i := int64(v)
		return &i
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f)
		}
	}
	return nil
}

func castFloat(raw any) *float64 {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func truncate(f float64) *int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= 1<<63 || f < -(1<<63) {
		return nil
	}
	i := int64(f)
	return &i
}
