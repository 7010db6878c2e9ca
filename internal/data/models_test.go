package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/books-api/internal/validator"

	_ "modernc.org/sqlite"
)

func newTestModel(t *testing.T, now time.Time) BookModel {
	t.Helper()

	db, err := sql.Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CreateSchema(context.Background(), db, DriverSQLite))

	m := NewModels(db).Books
	m.Now = func() time.Time { return now }
	return m
}

func TestBookModelInsertAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 1, 10, 20, 30, 123456789, time.UTC)
	m := newTestModel(t, now)

	year := int64(1965)
	book := &Book{Title: "Dune", Author: "Frank Herbert", Year: &year}
	require.NoError(t, m.Insert(ctx, book))

	assert.EqualValues(t, 1, book.ID)
	assert.True(t, book.CreatedAt.Equal(now.Truncate(time.Microsecond)))
	assert.Equal(t, book.CreatedAt, book.UpdatedAt)

	other := &Book{Title: "Anathem", Author: "Neal Stephenson"}
	require.NoError(t, m.Insert(ctx, other))
	assert.EqualValues(t, 2, other.ID)

	got, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	require.NotNil(t, got.Year)
	assert.Equal(t, year, *got.Year)
	assert.Nil(t, got.Rating)
	assert.True(t, got.CreatedAt.Equal(book.CreatedAt))

	_, err = m.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = m.Get(ctx, 0)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBookModelUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	book := &Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, m.Insert(ctx, book))

	later := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return later }

	rating := 4.5
	book.Rating = &rating
	require.NoError(t, m.Update(ctx, book))
	assert.True(t, book.UpdatedAt.Equal(later))

	got, err := m.Get(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 4.5, *got.Rating)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.True(t, got.CreatedAt.Before(got.UpdatedAt))

	require.NoError(t, m.Delete(ctx, book.ID))
	assert.ErrorIs(t, m.Delete(ctx, book.ID), ErrRecordNotFound)
	assert.ErrorIs(t, m.Update(ctx, book), ErrRecordNotFound)
}

func TestBookModelGetAll(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, time.Now())

	for _, title := range []string{"Hyperion", "Anathem", "Dune"} {
		require.NoError(t, m.Insert(ctx, &Book{Title: title, Author: "Someone"}))
	}

	safe := []string{FieldID, FieldTitle, "-" + FieldID, "-" + FieldTitle}

	books, meta, err := m.GetAll(ctx, Filters{Page: 1, PageSize: 2, Sort: "-" + FieldTitle, SortSafeList: safe})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Hyperion", books[0].Title)
	assert.Equal(t, "Dune", books[1].Title)
	assert.Equal(t, Metadata{CurrentPage: 1, PageSize: 2, FirstPage: 1, LastPage: 2, TotalRecords: 3}, meta)

	books, _, err = m.GetAll(ctx, Filters{Page: 2, PageSize: 2, Sort: FieldID, SortSafeList: safe})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)

	books, meta, err = m.GetAll(ctx, Filters{Page: 5, PageSize: 2, Sort: FieldID, SortSafeList: safe})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, Metadata{}, meta)
}

func TestValidateFilters(t *testing.T) {
	safe := []string{FieldID}

	v := validator.New()
	ValidateFilters(v, Filters{Page: 1, PageSize: 20, Sort: FieldID, SortSafeList: safe})
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateFilters(v, Filters{Page: 0, PageSize: 101, Sort: "isbn", SortSafeList: safe})
	assert.Equal(t, []string{"page", "page_size", "sort"}, v.Fields())
}

func TestCreateSchemaUnknownDriver(t *testing.T) {
	db, err := sql.Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, CreateSchema(context.Background(), db, "mysql"))
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, time.March, 1, 10, 20, 30, 123456000, time.UTC)

	for _, src := range []any{
		want,
		"2024-03-01T10:20:30.123456Z",
		"2024-03-01 10:20:30.123456+00:00",
		"2024-03-01 10:20:30.123456 +0000 UTC",
		[]byte("2024-03-01 10:20:30.123456"),
	} {
		var ts timestamp
		require.NoError(t, ts.Scan(src), "%v", src)
		assert.True(t, ts.Time.Equal(want), "%v parsed as %v", src, ts.Time)
	}

	var ts timestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}
