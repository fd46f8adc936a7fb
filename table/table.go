// Package table holds raw, untyped tables of text cells and the decoders that
// produce them from flat files.
//
// A Table is what the loaders of the returns package consume: a header row and
// data rows, every cell kept as the text found in the source. No cleaning
// happens here; quotes, spaces and odd tokens are left for the loaders.
package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrShape is returned when a table is not rectangular or cannot be decoded
// into a header and rows.
var ErrShape = errors.New("malformed table")

// Table is a header plus rows of raw text cells. Every row has exactly as many
// cells as the header.
type Table struct {
	header []string
	rows   [][]string
}

// New returns a table after checking that every row matches the header width.
func New(header []string, rows ...[]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: empty header", ErrShape)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrShape, i+1, len(row), len(header))
		}
	}
	return &Table{header: slices.Clone(header), rows: rows}, nil
}

// MustNew is like New but panics on error.
func MustNew(header []string, rows ...[]string) *Table {
	t, err := New(header, rows...)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Header returns a copy of the header labels.
func (t *Table) Header() []string { return slices.Clone(t.header) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.header) }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th data row. The slice must not be modified.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Cell returns the cell at row i and column j.
func (t *Table) Cell(i, j int) string { return t.rows[i][j] }

// Column returns a copy of the j-th column.
func (t *Table) Column(j int) []string {
	col := make([]string, len(t.rows))
	for i, row := range t.rows {
		col[i] = row[j]
	}
	return col
}

// Relabel returns a table sharing the rows of t whose header labels have been
// transformed by f.
func (t *Table) Relabel(f func(string) string) *Table {
	header := make([]string, len(t.header))
	for j, label := range t.header {
		header[j] = f(label)
	}
	return &Table{header: header, rows: t.rows}
}

// Index returns the position of the first column labelled exactly label, or -1.
func (t *Table) Index(label string) int { return slices.Index(t.header, label) }
