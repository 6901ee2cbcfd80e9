package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/grocysync/importer/internal/domain"
)

// XLSXWriter writes rows to the first sheet of a new workbook
type XLSXWriter struct {
	Path string
}

// WriteRows replaces the workbook at Path with the given rows
func (w *XLSXWriter) WriteRows(rows []domain.Row) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for col, value := range record(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			// barcodes stay text so leading zeros survive
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := ensureDir(w.Path); err != nil {
		return err
	}
	return f.SaveAs(w.Path)
}
