package domain

import (
	"context"
	"errors"
)

// Row is an untyped tuple read from or written to a tabular store.
type Row []string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Cell returns the value at column i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// RowStore is the flat tabular store consumed by the roster loader and the
// memo store. It offers no uniqueness constraint and no compare-and-swap.
//
// Row indexes are zero-based positions in ReadAllRows order for the same
// table. Implementations return an error wrapping ErrRowOutOfRange when
// UpdateCell addresses a row that does not exist; a column past the end of
// an existing row extends the row.
type RowStore interface {
	AppendRow(ctx context.Context, table string, row Row) error
	ReadAllRows(ctx context.Context, table string) ([]Row, error)
	UpdateCell(ctx context.Context, table string, row, column int, value string) error
}

// ErrRowOutOfRange reports an UpdateCell against a missing row.
var ErrRowOutOfRange = errors.New("rowstore: row out of range")

// SetCell returns a copy of row with column set to value, padding with
// empty cells as needed.
func SetCell(row Row, column int, value string) Row {
	out := row.Clone()
	for len(out) <= column {
		out = append(out, "")
	}
	out[column] = value
	return out
}
