package dataset

import (
	"strings"

	"ncclens/domain/table"
	"ncclens/internal/errors"
)

// Split is the result of partitioning a grid at its first two marker rows
type Split struct {
	Header []string
	A      table.Segment
	B      table.Segment
	// Markers holds every marker row index found, in grid order
	Markers []int
}

// ExtraMarkers returns marker rows past the second; they stay inside segment B
func (s *Split) ExtraMarkers() []int {
	if len(s.Markers) <= 2 {
		return nil
	}
	return s.Markers[2:]
}

// FindMarkers returns the grid rows whose trimmed value in markerColumn equals marker
func FindMarkers(grid table.Grid, marker string, markerColumn int) []int {
	var found []int
	for i := range grid {
		if strings.TrimSpace(grid.Cell(i, markerColumn)) == marker {
			found = append(found, i)
		}
	}
	return found
}

// SplitByMarker partitions grid into a shared header and two segments. Segment A is
// the rows strictly between the first two markers, segment B every row after the
// second. Fewer than two markers is an error and no partial split is returned.
func SplitByMarker(grid table.Grid, marker string, markerColumn int) (*Split, error) {
	if markerColumn < 0 {
		return nil, errors.InvalidInput("marker column must be zero or positive").With("marker_column", markerColumn)
	}

	markers := FindMarkers(grid, marker, markerColumn)
	if len(markers) < 2 {
		return nil, errors.InsufficientHeaders(marker, len(markers))
	}

	first, second := markers[0], markers[1]
	width := grid.Width()

	return &Split{
		Header:  table.Pad(grid[first], width),
		A:       segment("A", grid, first+1, second),
		B:       segment("B", grid, second+1, len(grid)),
		Markers: markers,
	}, nil
}

func segment(name string, grid table.Grid, from, to int) table.Segment {
	seg := table.Segment{Name: name, Start: -1}
	if from >= to {
		return seg
	}
	seg.Start = from
	seg.Rows = make([][]string, 0, to-from)
	for _, row := range grid[from:to] {
		seg.Rows = append(seg.Rows, append([]string(nil), row...))
	}
	return seg
}
