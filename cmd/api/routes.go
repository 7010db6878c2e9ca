// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloghttp "github.com/samber/slog-http"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → request logging → CORS → rateLimit → router
//
// Current endpoints:
//
//	POST   /v1/books        – create a new book (also served at /books)
//	GET    /v1/books/:id    – retrieve a single book by ID
//	GET    /v1/books        – list books (paginated)
//	PATCH  /v1/books/:id    – partially update an existing book
//	DELETE /v1/books/:id    – delete a book by ID
//	GET    /v1/healthcheck  – liveness and version
//	GET    /metrics         – Prometheus metrics
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// Book CRUD routes
	router.HandlerFunc(http.MethodPost, "/v1/books", app.createBookHandler)
	router.HandlerFunc(http.MethodPost, "/books", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", app.showBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.deleteBookHandler)

	// recoverPanic is outermost so it catches panics from every other layer.
	return app.recoverPanic(sloghttp.New(app.logger)(app.enableCORS(app.rateLimit(router))))
}
