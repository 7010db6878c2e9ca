// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger, the database models and the configured field policy.
package main

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/metrics"
	"github.com/aoideee/books-api/internal/validator"
)

// bookParam is the top-level key that wraps book attributes in write requests.
const bookParam = "book"

// fieldPolicy returns the policy for this request: one stored in the
// request context wins over the configured one.
func (app *applicationDependencies) fieldPolicy(r *http.Request) data.FieldPolicy {
	return data.FieldPolicyFromContext(r.Context(), app.policy)
}

// readBookParam decodes the body and returns the "book" object. It writes
// the 400 response itself and reports false when the request cannot proceed.
func (app *applicationDependencies) readBookParam(w http.ResponseWriter, r *http.Request, action string) (map[string]any, bool) {
	params, err := app.readParams(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}

	payload, err := requireParam(params, bookParam)
	if err != nil {
		metrics.BookParamMissing.WithLabelValues(action).Inc()
		app.paramMissingResponse(w, r, bookParam)
		return nil, false
	}
	return payload, true
}

// createBookHandler handles POST /v1/books.
// It reads the "book" object from the body, keeps only the attributes the
// field policy permits for create, validates them, inserts a record and
// responds 200 with the book shaped by the show field list.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	policy := app.fieldPolicy(r)

	payload, ok := app.readBookParam(w, r, "create")
	if !ok {
		return
	}

	book := data.PermitBook(payload, policy.PermittedFieldsForCreate())

	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		metrics.BookValidationFailures.WithLabelValues("create").Inc()
		app.failedValidationResponse(w, r, v)
		return
	}

	// Insert() also writes the assigned ID and timestamps back into book.
	err := app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	metrics.BooksCreated.Inc()

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%d", book.ID))

	err = app.writeJSON(w, http.StatusOK, envelope{"book": data.PresentBook(book, policy.PermittedFieldsForShow())}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /v1/books/:id.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	fields := app.fieldPolicy(r).PermittedFieldsForShow()
	err = app.writeJSON(w, http.StatusOK, envelope{"book": data.PresentBook(book, fields)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /v1/books.
// Query parameters: page, page_size and sort (any show-able column, "-" for DESC).
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filters := data.Filters{
		Page:     app.readInt(qs, "page", 1, v),
		PageSize: app.readInt(qs, "page_size", 20, v),
		Sort:     app.readString(qs, "sort", data.FieldID),
		SortSafeList: []string{
			data.FieldID, data.FieldTitle, data.FieldAuthor, data.FieldYear, data.FieldRating, data.FieldCreatedAt,
			"-" + data.FieldID, "-" + data.FieldTitle, "-" + data.FieldAuthor, "-" + data.FieldYear, "-" + data.FieldRating, "-" + data.FieldCreatedAt,
		},
	}

	if data.ValidateFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v)
		return
	}

	books, metadata, err := app.models.Books.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	fields := app.fieldPolicy(r).PermittedFieldsForShow()
	err = app.writeJSON(w, http.StatusOK, envelope{"books": data.PresentBooks(books, fields), "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PATCH /v1/books/:id.
// Only create-permitted attributes present in the "book" object are applied;
// the merged record is validated with the same rules as on create.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	policy := app.fieldPolicy(r)

	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	payload, ok := app.readBookParam(w, r, "update")
	if !ok {
		return
	}

	data.PermitInto(book, payload, policy.PermittedFieldsForCreate())

	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		metrics.BookValidationFailures.WithLabelValues("update").Inc()
		app.failedValidationResponse(w, r, v)
		return
	}

	err = app.models.Books.Update(r.Context(), book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	metrics.BooksUpdated.Inc()

	err = app.writeJSON(w, http.StatusOK, envelope{"book": data.PresentBook(book, policy.PermittedFieldsForShow())}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /v1/books/:id.
// Responds 404 if no book with that ID exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	metrics.BooksDeleted.Inc()

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /v1/healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status":      "available",
		"environment": app.config.Environment,
		"version":     appVersion,
	}
	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
