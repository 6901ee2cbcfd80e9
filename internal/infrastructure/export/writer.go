package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grocysync/importer/internal/domain"
)

// Header is the column layout of every export
var Header = []string{"name", "barcode", "brand", "store", "quantity", "category"}

// NewWriter returns the writer matching the file extension of path:
// .xlsx produces a workbook, anything else CSV
func NewWriter(path string) domain.RowWriter {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return &XLSXWriter{Path: path}
	}
	return &CSVWriter{Path: path}
}

func record(row domain.Row) []string {
	return []string{row.Name, row.Barcode, row.Brand, row.Store, row.Quantity, row.Category}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
