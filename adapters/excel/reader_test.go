package excel

import (
	"os"
	"path/filepath"
	"testing"

	"ncclens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "Corporate and Retail Clients"

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", testSheet))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(testSheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadSheet(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"},
		{1, "Corporate", 100},
		{},
		{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"},
		{1, "Retail", 20},
	})

	grid, err := NewSheetLoader(nil).LoadSheet(path, testSheet)
	require.NoError(t, err)

	require.Len(t, grid, 5)
	assert.Equal(t, []string{"S/N", "CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)"}, grid[0])
	assert.Equal(t, []string{"1", "Corporate", "100"}, grid[1])
	assert.Empty(t, grid[2])
	assert.Equal(t, "S/N", grid.Cell(3, 0))
	assert.Equal(t, "20", grid.Cell(4, 2))
}

func TestLoadSheet_SourceNotFound(t *testing.T) {
	_, err := NewSheetLoader(nil).LoadSheet(filepath.Join(t.TempDir(), "missing.xlsx"), testSheet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSourceNotFound))
}

func TestLoadSheet_SheetNotFound(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"S/N"}})

	_, err := NewSheetLoader(nil).LoadSheet(path, "Retail Only")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSheetNotFound))
	assert.Contains(t, err.Error(), "Retail Only")
	assert.Contains(t, err.Error(), testSheet)
}

func TestLoadSheet_UnreadableFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("S/N,CLIENT\n1,Corporate\n"), 0644))

	_, err := NewSheetLoader(nil).LoadSheet(path, testSheet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeUnreadableFormat))

	_, err = NewSheetLoader(nil).LoadSheet(t.TempDir(), testSheet)
	assert.True(t, errors.HasCode(err, errors.CodeUnreadableFormat))
}

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{{"S/N"}})

	sheets, err := NewSheetLoader(nil).ListSheets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{testSheet, "Notes"}, sheets)
}
