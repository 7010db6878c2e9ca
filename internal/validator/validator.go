// Package validator provides a custom Validator type for accumulating
// field-level validation errors and returning them as ordered message lists.
package validator

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Messages shared by every resource that validates presence and length.
const (
	MsgBlank = "can't be blank"
)

// MsgTooShort returns the message reported when a value has fewer than min characters.
func MsgTooShort(min int) string {
	return "is too short (minimum is " + strconv.Itoa(min) + " characters)"
}

// rules evaluates single-tag checks. A fresh playground validator per Check
// would rebuild its tag cache, so one instance is shared; it is safe for
// concurrent use.
var rules = playground.New()

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string][]string
	fields []string // first-failure order, used when encoding
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError appends message to the list of failures recorded for key.
// Every failure is kept, in the order it was reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.fields = append(v.fields, key)
	}
	v.Errors[key] = append(v.Errors[key], message)
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(validator.NotBlank(title), "title", validator.MsgBlank)
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Fields returns the names of failing fields in the order they first failed.
func (v *Validator) Fields() []string {
	return append([]string(nil), v.fields...)
}

// MarshalJSON encodes the errors as an object whose keys follow the order
// in which fields first failed, rather than Go's sorted map order.
func (v *Validator) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		msgs, err := json.Marshal(v.Errors[field])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NotBlank returns true if value holds at least one non-whitespace character.
func NotBlank(value string) bool {
	return rules.Var(strings.TrimSpace(value), "required") == nil
}

// MinChars returns true if value holds at least n characters (runes, not bytes).
func MinChars(value string, n int) bool {
	return rules.Var(value, "min="+strconv.Itoa(n)) == nil
}

// PermittedValue returns true if value is one of permittedValues.
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	for _, item := range permittedValues {
		if value == item {
			return true
		}
	}
	return false
}

// Unique returns true if every string in values is distinct.
func Unique(values []string) bool {
	seen := make(map[string]bool)
	for _, v := range values {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
