// Package metrics holds the Prometheus collectors for book writes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every collector registered by this package.
const Namespace = "books_api"

// Collector names, without the namespace prefix.
const (
	NameBooksCreated           = "books_created_total"
	NameBooksUpdated           = "books_updated_total"
	NameBooksDeleted           = "books_deleted_total"
	NameBookValidationFailures = "books_validation_failures_total"
	NameBookParamMissing       = "books_param_missing_total"
)

// BooksCreated counts books inserted through the API.
var BooksCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameBooksCreated,
		Help:      "Total books created",
		Namespace: Namespace,
	},
)

// BooksUpdated counts successful book updates.
var BooksUpdated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameBooksUpdated,
		Help:      "Total books updated",
		Namespace: Namespace,
	},
)

// BooksDeleted counts successful book deletions.
var BooksDeleted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameBooksDeleted,
		Help:      "Total books deleted",
		Namespace: Namespace,
	},
)

// BookValidationFailures counts writes rejected with 422, labelled by action.
var BookValidationFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameBookValidationFailures,
		Help:      "Total book writes rejected by validation, by action",
		Namespace: Namespace,
	},
	[]string{"action"},
)

// BookParamMissing counts writes rejected because the book param was missing, labelled by action.
var BookParamMissing = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameBookParamMissing,
		Help:      "Total book writes missing the book parameter, by action",
		Namespace: Namespace,
	},
	[]string{"action"},
)
