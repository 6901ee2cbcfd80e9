package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/grocysync/importer/internal/domain"
)

// CSVWriter writes rows as a UTF-8 CSV file with a header line
type CSVWriter struct {
	Path string
}

// WriteRows replaces the file at Path with the given rows
func (w *CSVWriter) WriteRows(rows []domain.Row) error {
	if err := ensureDir(w.Path); err != nil {
		return err
	}

	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", w.Path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			f.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
