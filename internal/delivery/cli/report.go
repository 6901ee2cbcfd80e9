package cli

import (
	"fmt"
	"io"

	"github.com/grocysync/importer/internal/domain"
)

// WriteSummary prints the end-of-run statistics. Categories without any
// counted record are left out.
func WriteSummary(w io.Writer, stats *domain.RunStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "===== Import Summary =====")
	fmt.Fprintf(w, "Run: %s\n", stats.RunID)
	fmt.Fprintf(w, "New products: %d\n", stats.Total.New)
	fmt.Fprintf(w, "Skipped: %d (invalid %d, already in Grocy %d, duplicate %d)\n",
		stats.Total.Skipped, stats.Total.Invalid, stats.Total.Known, stats.Total.Duplicate)
	fmt.Fprintf(w, "Written to file: %d\n", stats.Written)
	fmt.Fprintf(w, "Imported into Grocy: %d\n", stats.Total.Imported)
	if stats.Total.Failed > 0 {
		fmt.Fprintf(w, "Import failed: %d\n", stats.Total.Failed)
	}
	if stats.Total.Orphaned > 0 {
		fmt.Fprintf(w, "Created without barcode: %d\n", stats.Total.Orphaned)
	}
	fmt.Fprintln(w, "---------------------------")
	for _, c := range stats.Categories() {
		if c.IsZero() {
			continue
		}
		fmt.Fprintf(w, "%s: new %d, skip %d, imported %d\n", c.Category, c.New, c.Skipped, c.Imported)
	}
	fmt.Fprintln(w, "===========================")
}

// ModeLine describes whether the run imports into Grocy
func ModeLine(importEnabled bool) string {
	if importEnabled {
		return "[MODE] CSV + Import"
	}
	return "[MODE] CSV-only (no import)"
}
