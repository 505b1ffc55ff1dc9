package ports

import "ncclens/domain/table"

// SheetLoader reads one sheet of a workbook as a header-less grid
type SheetLoader interface {
	LoadSheet(workbookPath, sheetName string) (table.Grid, error)
}
