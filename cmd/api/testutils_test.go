package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aoideee/books-api/internal/data"
)

// fixedNow is the clock used by the test store, so timestamps in responses
// are predictable.
var fixedNow = time.Date(2024, time.March, 1, 10, 20, 30, 123456789, time.UTC)

const fixedStamp = "2024-03-01T10:20:30.123Z"

func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	db, err := sql.Open(data.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, data.CreateSchema(context.Background(), db, data.DriverSQLite))

	models := data.NewModels(db)
	models.Books.Now = func() time.Time { return fixedNow }

	return &applicationDependencies{
		config: serverConfig{Environment: "testing"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: models,
		policy: data.DefaultFieldPolicy{},
	}
}

// serve runs req through the full middleware chain and router.
func serve(app *applicationDependencies, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.routes().ServeHTTP(rr, req)
	return rr
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func countBooks(t *testing.T, app *applicationDependencies) int {
	t.Helper()
	n, err := app.models.Books.Count(context.Background())
	require.NoError(t, err)
	return n
}

// decodeKeys returns the keys of the object stored under key in body, in
// the order they appear on the wire.
func decodeKeys(t *testing.T, body []byte, key string) []string {
	t.Helper()

	var outer map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &outer))
	raw, ok := outer[key]
	require.True(t, ok, "missing %q in %s", key, body)

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}
