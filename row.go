package sqlite

import "strings"

// Row is one materialized result row: an immutable ordered sequence of
// values paired with a case-insensitive column-name lookup. The name map is
// derived once per result set from the statement's column metadata; when two
// columns share a name (ignoring case) the later column wins for name-based
// lookup, while positional access is unaffected and always authoritative.
type Row struct {
	values  []Value
	columns []string
	index   map[string]int
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r.values) }

// At returns the value at 0-based position i. It panics when i is out of
// range, like any slice access.
func (r Row) At(i int) Value { return r.values[i] }

// Get looks up a value by column name, ignoring case.
func (r Row) Get(name string) (Value, bool) {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Columns returns the column names in positional order, with their original
// declared casing.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}
