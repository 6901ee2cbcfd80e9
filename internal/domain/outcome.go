package domain

// Outcome tags the result of a remote write
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeCreated  Outcome = "created"
	OutcomeFailed   Outcome = "failed"
	OutcomeOrphaned Outcome = "orphaned" // product created, barcode association failed
)

// ReferenceKind names a Grocy object type used as a product reference
type ReferenceKind string

const (
	ReferenceQuantityUnit ReferenceKind = "quantity_units"
	ReferenceLocation     ReferenceKind = "locations"
)

// ReferenceResult is the result of a lookup-or-create of a reference entity
type ReferenceResult struct {
	ID      int
	Outcome Outcome
}

// CreateResult is the result of the two-step product creation
type CreateResult struct {
	Outcome   Outcome
	ProductID int // set for created and orphaned
	Err       error
}

// Imported reports whether the product and its barcode were both stored
func (r CreateResult) Imported() bool {
	return r.Outcome == OutcomeCreated
}
