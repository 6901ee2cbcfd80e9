package usecase

import "github.com/grocysync/importer/internal/domain"

// Deduplicate keeps the first row for every barcode, in input order.
// Rows without barcode are dropped.
func Deduplicate(rows []domain.Row) []domain.Row {
	seen := make(map[string]struct{}, len(rows))
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		if row.Barcode == "" {
			continue
		}
		if _, ok := seen[row.Barcode]; ok {
			continue
		}
		seen[row.Barcode] = struct{}{}
		out = append(out, row)
	}
	return out
}
