package data

import (
	"bytes"
	"encoding/json"
)

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its keys in insertion order when
// encoded. Plain maps would be emitted with sorted keys.
type Object []Member

// MarshalJSON implements json.Marshaler.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value stored under key and whether it is present.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the object's keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// PresentBook shapes book for output: one key per name in fields, in the
// given order, and nothing else. Names outside BookAttributes are skipped.
func PresentBook(book *Book, fields []string) Object {
	fields = Restrict(fields, BookAttributes)
	obj := make(Object, 0, len(fields))
	for _, f := range fields {
		obj = append(obj, Member{Key: f, Value: book.Attribute(f)})
	}
	return obj
}

// PresentBooks shapes every book in books with the same field list.
func PresentBooks(books []*Book, fields []string) []Object {
	out := make([]Object, 0, len(books))
	for _, b := range books {
		out = append(out, PresentBook(b, fields))
	}
	return out
}
