package excel

import (
	"fmt"
	"os"
	"time"

	"ncclens/domain/table"
	"ncclens/internal"
	"ncclens/internal/errors"

	"github.com/xuri/excelize/v2"
)

// SheetLoader reads workbook sheets into header-less grids. It keeps no state
// between calls: every load reopens the workbook.
type SheetLoader struct {
	log *internal.Logger
}

// NewSheetLoader creates a loader; a nil logger discards output
func NewSheetLoader(log *internal.Logger) *SheetLoader {
	if log == nil {
		log = internal.NewNopLogger()
	}
	return &SheetLoader{log: log}
}

// LoadSheet reads every row of the named sheet, embedded header rows included, as plain data
func (l *SheetLoader) LoadSheet(workbookPath, sheetName string) (table.Grid, error) {
	startTime := time.Now()

	f, err := openWorkbook(workbookPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return nil, errors.SheetNotFound(sheetName, f.GetSheetList())
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.UnreadableFormat(workbookPath, fmt.Errorf("read sheet %q: %w", sheetName, err))
	}

	l.log.Info("[SheetLoader] %s!%s read in %.2fms (%d rows)",
		workbookPath, sheetName, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return table.Grid(rows), nil
}

// ListSheets returns the sheet names of a workbook in tab order
func (l *SheetLoader) ListSheets(workbookPath string) ([]string, error) {
	f, err := openWorkbook(workbookPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func openWorkbook(workbookPath string) (*excelize.File, error) {
	info, err := os.Stat(workbookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceNotFound(workbookPath)
		}
		return nil, errors.UnreadableFormat(workbookPath, err)
	}
	if info.IsDir() {
		return nil, errors.UnreadableFormat(workbookPath, fmt.Errorf("is a directory"))
	}

	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, errors.UnreadableFormat(workbookPath, err)
	}
	return f, nil
}
