package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/books-api/internal/data"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, data.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxIdleTime)
	assert.True(t, cfg.Limiter.Enabled)
	assert.Nil(t, cfg.Fields.Create)
	assert.Nil(t, cfg.Fields.Show)

	policy, err := cfg.fieldPolicy()
	require.NoError(t, err)
	assert.Equal(t, data.DefaultFieldPolicy{}, policy)
}

func TestLoadConfig_EnvironmentThenFlags(t *testing.T) {
	environ := map[string]string{
		"BOOKS_PORT":                 "8080",
		"BOOKS_DB_DRIVER":            "sqlite",
		"BOOKS_DB_DSN":               "file:books.db",
		"BOOKS_LOG_LEVEL":            "debug",
		"BOOKS_FIELDS_SHOW":          "id,title,author",
		"BOOKS_CORS_TRUSTED_ORIGINS": "http://a.example http://b.example",
	}

	cfg, err := loadConfig([]string{"-port", "9090", "-create-fields", "title, author"}, environ)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, data.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "file:books.db", cfg.DB.DSN)
	assert.Equal(t, slog.LevelDebug, cfg.logLevel())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.TrustedOrigins)
	assert.Equal(t, []string{"title", "author"}, cfg.Fields.Create)
	assert.Equal(t, []string{"id", "title", "author"}, cfg.Fields.Show)

	policy, err := cfg.fieldPolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "author"}, policy.PermittedFieldsForCreate())
	assert.Equal(t, []string{"id", "title", "author"}, policy.PermittedFieldsForShow())
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig([]string{"-db-driver", "mysql"}, map[string]string{})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-port", "abc"}, map[string]string{})
	assert.Error(t, err)

	cfg, err := loadConfig([]string{"-show-fields", "id,isbn"}, map[string]string{})
	require.NoError(t, err)
	_, err = cfg.fieldPolicy()
	assert.ErrorIs(t, err, data.ErrInvalidFieldPolicy)

	cfg, err = loadConfig([]string{"-create-fields", "id"}, map[string]string{})
	require.NoError(t, err)
	_, err = cfg.fieldPolicy()
	assert.ErrorIs(t, err, data.ErrInvalidFieldPolicy)
}

func TestLogLevelFallback(t *testing.T) {
	cfg := serverConfig{LogLevel: "loud"}
	assert.Equal(t, slog.LevelInfo, cfg.logLevel())
}
