// Package table holds the tabular types shared by the ingestion pipeline and its consumers.
package table

import "strings"

// Grid is a header-less, row-major sheet dump. Rows may be ragged; a missing
// cell reads as the empty string.
type Grid [][]string

// Cell returns the value at (row, col) or "" when out of range
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Width returns the length of the longest row
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// IsEmptyCell reports whether a cell counts as missing
func IsEmptyCell(value string) bool {
	return strings.TrimSpace(value) == ""
}

// IsEmptyRow reports whether every cell of the row is missing
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if !IsEmptyCell(cell) {
			return false
		}
	}
	return true
}

// Pad returns a copy of row resized to width, filling with "" or truncating
func Pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Segment is a contiguous row range of a Grid with an origin label
type Segment struct {
	Name  string     // "A" or "B"
	Label string     // origin label, e.g. "Corporate"
	Start int        // grid index of the first row, -1 when the segment is empty
	Rows  [][]string // rows in grid order
}

// Describe names the segment for error messages, e.g. "segment B (Retail)"
func (s Segment) Describe() string {
	if s.Label == "" {
		return "segment " + s.Name
	}
	return "segment " + s.Name + " (" + s.Label + ")"
}

// Table is a header plus rows of equal width
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the first column whose trimmed name equals name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell of row in the named column, "" when absent
func (t *Table) Value(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Column returns every value of the named column, nil when absent
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// Filter returns a table holding the rows for which keep returns true, sharing row storage
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Columns: t.Columns, Rows: make([][]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
