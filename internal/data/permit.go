package data

// PermitBook builds a candidate Book from a decoded "book" payload, reading
// only the keys listed in fields. Anything else in the payload is ignored,
// and unread attributes keep their zero value.
func PermitBook(payload map[string]any, fields []string) *Book {
	book := &Book{}
	PermitInto(book, payload, fields)
	return book
}

// PermitInto assigns the permitted keys present in payload onto an existing
// book and reports which attributes were assigned.
func PermitInto(book *Book, payload map[string]any, fields []string) []string {
	var assigned []string
	for _, f := range Restrict(fields, defaultCreateFields) {
		raw, ok := payload[f]
		if !ok {
			continue
		}
		if book.Assign(f, raw) {
			assigned = append(assigned, f)
		}
	}
	return assigned
}
