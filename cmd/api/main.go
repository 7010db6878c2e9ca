// Package main is the entry point for the books API server.
// It wires together configuration, the database connection, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/aoideee/books-api/internal/data"

	_ "github.com/lib/pq"  // Register the PostgreSQL driver with database/sql.
	_ "modernc.org/sqlite" // Register the embedded SQLite driver with database/sql.
)

// appVersion is the current version of the API, shown in logs.
const appVersion = "1.1.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig
	logger *slog.Logger
	models data.Models
	policy data.FieldPolicy // used when the request context carries none
}

func main() {
	// A missing .env file is fine: the environment may be set directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("cannot load .env file", "error", err)
		os.Exit(1)
	}

	settings, err := loadConfig(os.Args[1:], nil)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: settings.logLevel()}))

	policy, err := settings.fieldPolicy()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connection pool established", "driver", settings.DB.Driver)

	appInstance := &applicationDependencies{
		config: settings,
		logger: logger,
		models: data.NewModels(db),
		policy: policy,
	}

	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openDB opens a connection pool for the configured driver, pings it with a
// 5-second timeout and makes sure the books table exists.
func openDB(settings serverConfig) (*sql.DB, error) {
	db, err := sql.Open(settings.DB.Driver, settings.DB.DSN)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	db.SetMaxOpenConns(settings.DB.MaxOpenConns)
	db.SetMaxIdleConns(settings.DB.MaxIdleConns)
	db.SetConnMaxIdleTime(settings.DB.MaxIdleTime)

	// An in-memory SQLite database exists per connection.
	if settings.DB.Driver == data.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	err = data.CreateSchema(ctx, db, settings.DB.Driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
