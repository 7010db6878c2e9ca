// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/aoideee/books-api/internal/validator"
)

// maxBodyBytes caps request bodies, JSON and form alike.
const maxBodyBytes = 1_048_576

// errParamMissing is returned by requireParam when the resource key is
// absent, null, empty or not an object.
var errParamMissing = errors.New(msgParamMissing)

// envelope is the top-level JSON wrapper type used for all API responses.
// Every response body is a JSON object with at least one named key,
// e.g. {"book": {...}} or {"books": [...], "metadata": {...}}.
type envelope map[string]any

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
// Returns an error if the value is missing, non-numeric, or less than 1.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// readString reads a string query parameter from qs, returning defaultValue
// if the key is absent or empty.
func (app *applicationDependencies) readString(qs url.Values, key, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readInt reads an integer query parameter from qs, returning defaultValue if
// the key is absent. A value that is not an integer is recorded on v.
func (app *applicationDependencies) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}

// writeJSON marshals data to compact JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return errors.WithStack(err)
	}

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit and ensures the body contains exactly one
// JSON value (no trailing data). An empty body leaves dst untouched.
// Numbers are decoded as json.Number so integers keep their precision.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	err := dec.Decode(dst)
	if err != nil {
		var (
			syntaxError        *json.SyntaxError
			unmarshalTypeError *json.UnmarshalTypeError
			maxBytesError      *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return errors.New("body must contain a JSON object")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readForm collects url-encoded or multipart form values into nested params.
// Bracketed keys such as book[title] become params["book"]["title"].
func (app *applicationDependencies) readForm(w http.ResponseWriter, r *http.Request, multipart bool) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var err error
	if multipart {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, errors.New("body contains a badly-formed form")
	}

	params := map[string]any{}
	for key, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		outer, inner, nested := strings.Cut(key, "[")
		if !nested {
			// Bracketed keys win over a plain key of the same name.
			if _, isObj := params[key].(map[string]any); !isObj {
				params[key] = values[0]
			}
			continue
		}
		inner, _, _ = strings.Cut(inner, "]")
		obj, ok := params[outer].(map[string]any)
		if !ok {
			obj = map[string]any{}
			params[outer] = obj
		}
		obj[inner] = values[0]
	}
	return params, nil
}

// readParams decodes the request body according to its Content-Type. JSON
// is assumed when no form type is declared.
func (app *applicationDependencies) readParams(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		return app.readForm(w, r, false)
	case "multipart/form-data":
		return app.readForm(w, r, true)
	}

	var params map[string]any
	if err := app.readJSON(w, r, &params); err != nil {
		return nil, err
	}
	return params, nil
}

// requireParam returns the object stored under key, or errParamMissing when
// it is absent or blank.
func requireParam(params map[string]any, key string) (map[string]any, error) {
	obj, ok := params[key].(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, errParamMissing
	}
	return obj, nil
}
