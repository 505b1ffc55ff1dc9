package dataset

import (
	"strconv"
	"strings"

	"ncclens/domain/table"
	"ncclens/internal/errors"
)

// MergeOptions controls how two cleaned segments become one table
type MergeOptions struct {
	Labels         [2]string // origin labels for segment A and B
	TagOrigin      bool      // append an origin column
	OriginColumn   string    // name of the origin column
	SequenceColumn string    // column renumbered 1..N; empty disables renumbering
}

// DefaultMergeOptions tags rows Corporate/Retail and renumbers "S/N"
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Labels:         [2]string{"Corporate", "Retail"},
		TagOrigin:      true,
		OriginColumn:   "origin",
		SequenceColumn: "S/N",
	}
}

// MergeResult contains the merged table and per-segment bookkeeping
type MergeResult struct {
	Table       *table.Table
	RowCount    int
	ColumnCount int
	SegmentRows [2]int // rows kept from segment A and segment B
	DroppedRows int            // fully-empty rows removed while cleaning
	Renumbered  bool
}

// CleanRows drops fully-empty rows and resizes the rest to width, preserving order
func CleanRows(rows [][]string, width int) [][]string {
	cleaned := make([][]string, 0, len(rows))
	for _, row := range rows {
		if table.IsEmptyRow(row) {
			continue
		}
		cleaned = append(cleaned, table.Pad(row, width))
	}
	return cleaned
}

// Merge cleans both segments, tags them with their origin, concatenates A before B
// and renumbers the sequence column across the whole result.
func Merge(header []string, a, b table.Segment, opts MergeOptions) (*MergeResult, error) {
	a.Label, b.Label = opts.Labels[0], opts.Labels[1]
	width := len(header)

	cleanA := CleanRows(a.Rows, width)
	if len(cleanA) == 0 {
		return nil, errors.EmptySegment(a.Describe())
	}
	cleanB := CleanRows(b.Rows, width)
	if len(cleanB) == 0 {
		return nil, errors.EmptySegment(b.Describe())
	}

	columns := append([]string(nil), header...)
	if opts.TagOrigin {
		columns = append(columns, opts.OriginColumn)
	}

	rows := make([][]string, 0, len(cleanA)+len(cleanB))
	rows = appendTagged(rows, cleanA, a.Label, opts.TagOrigin)
	rows = appendTagged(rows, cleanB, b.Label, opts.TagOrigin)

	merged := &table.Table{Columns: columns, Rows: rows}
	renumbered := renumber(merged, header, opts.SequenceColumn)

	return &MergeResult{
		Table:       merged,
		RowCount:    len(rows),
		ColumnCount: len(columns),
		SegmentRows: [2]int{len(cleanA), len(cleanB)},
		DroppedRows: len(a.Rows) - len(cleanA) + len(b.Rows) - len(cleanB),
		Renumbered:  renumbered,
	}, nil
}

func appendTagged(dst, rows [][]string, label string, tag bool) [][]string {
	for _, row := range rows {
		if tag {
			row = append(row, label)
		}
		dst = append(dst, row)
	}
	return dst
}

// renumber overwrites every header column named seqColumn with 1..N
func renumber(t *table.Table, header []string, seqColumn string) bool {
	if seqColumn == "" {
		return false
	}
	var targets []int
	for i, name := range header {
		if strings.TrimSpace(name) == seqColumn {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return false
	}
	for i, row := range t.Rows {
		n := strconv.Itoa(i + 1)
		for _, col := range targets {
			row[col] = n
		}
	}
	return true
}
