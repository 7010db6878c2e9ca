package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var schemas = map[string]string{
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS books (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			author text NOT NULL,
			year bigint,
			rating double precision,
			created_at timestamp(6) with time zone NOT NULL,
			updated_at timestamp(6) with time zone NOT NULL
		)`,
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			year INTEGER,
			rating REAL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
}

// CreateSchema creates the books table if it does not exist yet.
func CreateSchema(ctx context.Context, db *sql.DB, driver string) error {
	ddl, ok := schemas[driver]
	if !ok {
		return errors.Errorf("unsupported database driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "create books table")
	}
	return nil
}

// timestamp scans a column that the postgres driver returns as time.Time and
// the sqlite driver may return as text.
type timestamp struct {
	Time time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Scan implements sql.Scanner.
func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return errors.Errorf("cannot scan %T into timestamp", src)
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return errors.Errorf("cannot parse timestamp %q", s)
}
