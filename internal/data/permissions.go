package data

import (
	"context"

	"github.com/pkg/errors"

	"github.com/aoideee/books-api/internal/validator"
)

// FieldPolicy supplies the ordered allow-lists of book attributes that may be
// read from create input and written to serialized output.
type FieldPolicy interface {
	PermittedFieldsForCreate() []string
	PermittedFieldsForShow() []string
}

var (
	defaultCreateFields = []string{FieldTitle, FieldAuthor, FieldYear, FieldRating}
	defaultShowFields   = []string{FieldID, FieldTitle, FieldAuthor, FieldYear, FieldRating, FieldCreatedAt, FieldUpdatedAt}
)

// DefaultFieldPolicy permits every writable attribute on input and every
// attribute on output.
type DefaultFieldPolicy struct{}

// PermittedFieldsForCreate returns title, author, year and rating.
func (DefaultFieldPolicy) PermittedFieldsForCreate() []string {
	return append([]string(nil), defaultCreateFields...)
}

// PermittedFieldsForShow returns every book attribute in declaration order.
func (DefaultFieldPolicy) PermittedFieldsForShow() []string {
	return append([]string(nil), defaultShowFields...)
}

// StaticFieldPolicy is a FieldPolicy with fixed lists. A nil list falls back
// to the default for that direction.
type StaticFieldPolicy struct {
	Create []string
	Show   []string
}

// PermittedFieldsForCreate returns a copy of Create, or the default list when it is nil.
func (p StaticFieldPolicy) PermittedFieldsForCreate() []string {
	if p.Create == nil {
		return DefaultFieldPolicy{}.PermittedFieldsForCreate()
	}
	return append([]string(nil), p.Create...)
}

// PermittedFieldsForShow returns a copy of Show, or the default list when it is nil.
func (p StaticFieldPolicy) PermittedFieldsForShow() []string {
	if p.Show == nil {
		return DefaultFieldPolicy{}.PermittedFieldsForShow()
	}
	return append([]string(nil), p.Show...)
}

// ErrInvalidFieldPolicy is returned by NewFieldPolicy for lists that name
// unknown or repeated attributes.
var ErrInvalidFieldPolicy = errors.New("invalid field policy")

// NewFieldPolicy builds a StaticFieldPolicy after checking that both lists
// only narrow the book attribute set. create may not name id or the
// timestamps since those are assigned by the store.
func NewFieldPolicy(create, show []string) (StaticFieldPolicy, error) {
	if err := checkFields(create, defaultCreateFields); err != nil {
		return StaticFieldPolicy{}, errors.Wrap(err, "create fields")
	}
	if err := checkFields(show, BookAttributes); err != nil {
		return StaticFieldPolicy{}, errors.Wrap(err, "show fields")
	}
	return StaticFieldPolicy{Create: create, Show: show}, nil
}

func checkFields(fields, allowed []string) error {
	if !validator.Unique(fields) {
		return errors.Wrapf(ErrInvalidFieldPolicy, "duplicate field in %v", fields)
	}
	for _, f := range fields {
		if !validator.PermittedValue(f, allowed...) {
			return errors.Wrapf(ErrInvalidFieldPolicy, "unknown field %q", f)
		}
	}
	return nil
}

// Restrict drops any names a policy returned that are not in allowed, so a
// misbehaving policy can never widen the attribute set.
func Restrict(fields, allowed []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if validator.PermittedValue(f, allowed...) && !validator.PermittedValue(f, out...) {
			out = append(out, f)
		}
	}
	return out
}

type fieldPolicyKey struct{}

// ContextWithFieldPolicy returns a copy of ctx carrying p, which takes
// precedence over the configured policy for the request it belongs to.
func ContextWithFieldPolicy(ctx context.Context, p FieldPolicy) context.Context {
	return context.WithValue(ctx, fieldPolicyKey{}, p)
}

// FieldPolicyFromContext returns the policy stored in ctx, or fallback.
func FieldPolicyFromContext(ctx context.Context, fallback FieldPolicy) FieldPolicy {
	if p, ok := ctx.Value(fieldPolicyKey{}).(FieldPolicy); ok && p != nil {
		return p
	}
	return fallback
}
