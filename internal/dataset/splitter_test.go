package dataset

import (
	"testing"

	"ncclens/domain/table"
	"ncclens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientGrid() table.Grid {
	return table.Grid{
		{"S/N", "NAME", "REGION", "BANDWIDTH"},
		{"1", "Acme", "North", "100"},
		{"", "", "", ""},
		{"2", "Globex", "South", "50"},
		{"S/N", "NAME", "REGION", "BANDWIDTH"},
		{"1", "Ada", "North", "10"},
		{"2", "Bola", "East", "20"},
		{"3", "Chi", "West", "30"},
	}
}

func TestSplitByMarker_TwoMarkers(t *testing.T) {
	split, err := SplitByMarker(clientGrid(), "S/N", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"S/N", "NAME", "REGION", "BANDWIDTH"}, split.Header)
	assert.Equal(t, []int{0, 4}, split.Markers)
	assert.Empty(t, split.ExtraMarkers())

	assert.Equal(t, 1, split.A.Start)
	assert.Len(t, split.A.Rows, 3)
	assert.Equal(t, 5, split.B.Start)
	assert.Len(t, split.B.Rows, 3)

	// every non-header row lands in exactly one segment
	assert.Equal(t, len(clientGrid())-2, len(split.A.Rows)+len(split.B.Rows))
}

func TestSplitByMarker_CopiesRows(t *testing.T) {
	grid := clientGrid()
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)

	split.A.Rows[0][1] = "changed"
	split.Header[1] = "changed"
	assert.Equal(t, "Acme", grid[1][1])
	assert.Equal(t, "NAME", grid[0][1])
}

func TestSplitByMarker_TrimsMarkerCell(t *testing.T) {
	grid := table.Grid{
		{" S/N ", "NAME"},
		{"1", "a"},
		{"S/N\t", "NAME"},
		{"1", "b"},
	}
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, split.Markers)
}

func TestSplitByMarker_MarkerColumn(t *testing.T) {
	grid := table.Grid{
		{"x", "ID", "NAME"},
		{"", "1", "a"},
		{"y", "ID", "NAME"},
		{"", "1", "b"},
	}
	split, err := SplitByMarker(grid, "ID", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, split.Markers)

	_, err = SplitByMarker(grid, "ID", 0)
	assert.True(t, errors.HasCode(err, errors.CodeInsufficientHeaders))

	_, err = SplitByMarker(grid, "ID", -1)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestSplitByMarker_InsufficientHeaders(t *testing.T) {
	tests := []struct {
		name  string
		grid  table.Grid
		found int
	}{
		{"empty sheet", table.Grid{}, 0},
		{"no marker", table.Grid{{"a", "b"}, {"1", "2"}}, 0},
		{"one marker", table.Grid{{"S/N", "NAME"}, {"1", "a"}, {"2", "b"}}, 1},
		{"case differs", table.Grid{{"S/N", "NAME"}, {"s/n", "NAME"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := SplitByMarker(tt.grid, "S/N", 0)
			require.Error(t, err)
			assert.Nil(t, split)
			assert.True(t, errors.HasCode(err, errors.CodeInsufficientHeaders))
			found, ok := errors.ContextValue(err, "found")
			require.True(t, ok)
			assert.Equal(t, tt.found, found)
			assert.Contains(t, err.Error(), "S/N")
		})
	}
}

func TestSplitByMarker_ExtraMarkersStayInB(t *testing.T) {
	grid := table.Grid{
		{"S/N", "NAME"},
		{"1", "a"},
		{"S/N", "NAME"},
		{"1", "b"},
		{"S/N", "NAME"},
		{"2", "c"},
	}
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, split.ExtraMarkers())
	require.Len(t, split.B.Rows, 3)
	assert.Equal(t, []string{"S/N", "NAME"}, split.B.Rows[1])
}

func TestSplitByMarker_RowsBeforeFirstMarkerExcluded(t *testing.T) {
	grid := table.Grid{
		{"NCC client list"},
		{},
		{"S/N", "NAME"},
		{"1", "a"},
		{"S/N", "NAME"},
		{"1", "b"},
	}
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "a"}}, split.A.Rows)
	assert.Equal(t, [][]string{{"1", "b"}}, split.B.Rows)
}

func TestSplitByMarker_AdjacentMarkers(t *testing.T) {
	grid := table.Grid{
		{"S/N", "NAME"},
		{"S/N", "NAME"},
		{"1", "b"},
	}
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)
	assert.Empty(t, split.A.Rows)
	assert.Equal(t, -1, split.A.Start)
}

func TestSplitByMarker_HeaderPaddedToGridWidth(t *testing.T) {
	grid := table.Grid{
		{"S/N", "NAME"},
		{"1", "a", "extra"},
		{"S/N", "NAME"},
		{"1", "b"},
	}
	split, err := SplitByMarker(grid, "S/N", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"S/N", "NAME", ""}, split.Header)
}
