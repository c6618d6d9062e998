package model

import "fmt"

// Record is one row of a ledger extract, keyed by column header.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered tabular extract: a header plus rows. Column order is
// preserved from the source file so reports stay diffable across runs.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether the header contains the exact column name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnIndex returns the position of the exact column name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// InsertColumn adds a column at position idx and fills every row with values.
// len(values) must equal len(t.Rows).
func (t *Table) InsertColumn(idx int, name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("insert column %s: %d values for %d rows", name, len(values), len(t.Rows))
	}
	if idx < 0 || idx > len(t.Columns) {
		idx = len(t.Columns)
	}
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.Columns[:idx]...)
	cols = append(cols, name)
	cols = append(cols, t.Columns[idx:]...)
	t.Columns = cols
	for i, row := range t.Rows {
		row[name] = values[i]
	}
	return nil
}

// RenameColumn renames a header entry and rewrites the key in every row.
// A missing source column is a no-op.
func (t *Table) RenameColumn(from, to string) {
	idx := t.ColumnIndex(from)
	if idx < 0 {
		return
	}
	t.Columns[idx] = to
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
			delete(row, from)
		}
	}
}

// DropColumns removes the named columns from the header and from every row.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
	for _, row := range t.Rows {
		for n := range drop {
			delete(row, n)
		}
	}
}

// Append adds a row to the table.
func (t *Table) Append(r Record) {
	t.Rows = append(t.Rows, r)
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}
