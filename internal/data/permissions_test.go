package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFieldPolicy(t *testing.T) {
	p := DefaultFieldPolicy{}

	assert.Equal(t, []string{"title", "author", "year", "rating"}, p.PermittedFieldsForCreate())
	assert.Equal(t, []string{"id", "title", "author", "year", "rating", "created_at", "updated_at"}, p.PermittedFieldsForShow())

	// Callers may not mutate the defaults through the returned slice.
	fields := p.PermittedFieldsForCreate()
	fields[0] = "isbn"
	assert.Equal(t, FieldTitle, p.PermittedFieldsForCreate()[0])
}

func TestStaticFieldPolicyFallsBack(t *testing.T) {
	p := StaticFieldPolicy{Show: []string{FieldID, FieldTitle}}

	assert.Equal(t, DefaultFieldPolicy{}.PermittedFieldsForCreate(), p.PermittedFieldsForCreate())
	assert.Equal(t, []string{FieldID, FieldTitle}, p.PermittedFieldsForShow())

	empty := StaticFieldPolicy{Create: []string{}}
	assert.Empty(t, empty.PermittedFieldsForCreate())
}

func TestNewFieldPolicy(t *testing.T) {
	p, err := NewFieldPolicy([]string{FieldAuthor, FieldTitle}, []string{FieldUpdatedAt, FieldID})
	require.NoError(t, err)
	assert.Equal(t, []string{FieldAuthor, FieldTitle}, p.PermittedFieldsForCreate())
	assert.Equal(t, []string{FieldUpdatedAt, FieldID}, p.PermittedFieldsForShow())

	tests := []struct {
		name         string
		create, show []string
	}{
		{name: "unknown show field", show: []string{FieldID, "isbn"}},
		{name: "duplicate show field", show: []string{FieldID, FieldID}},
		{name: "store-owned create field", create: []string{FieldCreatedAt}},
		{name: "unknown create field", create: []string{"something"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldPolicy(tt.create, tt.show)
			assert.ErrorIs(t, err, ErrInvalidFieldPolicy)
		})
	}
}

func TestRestrict(t *testing.T) {
	got := Restrict([]string{"rating", "isbn", "id", "rating"}, BookAttributes)
	assert.Equal(t, []string{"rating", "id"}, got)
	assert.Empty(t, Restrict(nil, BookAttributes))
}

func TestFieldPolicyFromContext(t *testing.T) {
	fallback := DefaultFieldPolicy{}
	assert.Equal(t, fallback, FieldPolicyFromContext(context.Background(), fallback))

	override := StaticFieldPolicy{Show: []string{FieldID}}
	ctx := ContextWithFieldPolicy(context.Background(), override)
	assert.Equal(t, override, FieldPolicyFromContext(ctx, fallback))
}
