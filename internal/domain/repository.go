package domain

import "context"

// ProductSearcher defines the interface for querying the public product database
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query SearchQuery) ([]RawProduct, error)
}

// InventoryClient defines the interface for interacting with the inventory system
type InventoryClient interface {
	// FetchKnownBarcodes returns every barcode currently on file.
	// Failures wrap ErrRemoteUnavailable.
	FetchKnownBarcodes(ctx context.Context) (*BarcodeSet, error)

	// EnsureReference looks up a reference entity by name and creates it if absent
	EnsureReference(ctx context.Context, kind ReferenceKind, name string) (ReferenceResult, error)

	// CreateCatalogEntry creates a product and attaches the row's barcode to it.
	// Failures are reported through the result, never as a Go error.
	CreateCatalogEntry(ctx context.Context, row Row, unitID, locationID int) CreateResult
}

// RowWriter persists the accepted rows of a run
type RowWriter interface {
	WriteRows(rows []Row) error
}
