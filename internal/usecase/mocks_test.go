package usecase

import (
	"context"
	"errors"

	"github.com/grocysync/importer/internal/domain"
)

// MockSearcher is a mock implementation of domain.ProductSearcher
type MockSearcher struct {
	results map[string][]domain.RawProduct // by search term
	errs    map[string]error
	queries []domain.SearchQuery
	onQuery func(query domain.SearchQuery) // runs before the result is returned
}

func NewMockSearcher() *MockSearcher {
	return &MockSearcher{
		results: make(map[string][]domain.RawProduct),
		errs:    make(map[string]error),
	}
}

func (m *MockSearcher) SearchProducts(ctx context.Context, query domain.SearchQuery) ([]domain.RawProduct, error) {
	m.queries = append(m.queries, query)
	if m.onQuery != nil {
		m.onQuery(query)
	}
	if err := m.errs[query.Term]; err != nil {
		return nil, err
	}
	return m.results[query.Term], nil
}

// MockInventory is a mock implementation of domain.InventoryClient
type MockInventory struct {
	known       *domain.BarcodeSet
	knownError  error
	refError    error
	failBarcode map[string]domain.Outcome
	refs        []domain.ReferenceKind
	created     []domain.Row
	nextID      int
	onCreate    func(row domain.Row)
}

func NewMockInventory(known ...string) *MockInventory {
	return &MockInventory{
		known:       domain.NewBarcodeSet(known...),
		failBarcode: make(map[string]domain.Outcome),
	}
}

func (m *MockInventory) FetchKnownBarcodes(ctx context.Context) (*domain.BarcodeSet, error) {
	if m.knownError != nil {
		return nil, m.knownError
	}
	return m.known, nil
}

func (m *MockInventory) EnsureReference(ctx context.Context, kind domain.ReferenceKind, name string) (domain.ReferenceResult, error) {
	m.refs = append(m.refs, kind)
	if m.refError != nil {
		return domain.ReferenceResult{Outcome: domain.OutcomeFailed}, m.refError
	}
	m.nextID++
	return domain.ReferenceResult{ID: m.nextID, Outcome: domain.OutcomeCreated}, nil
}

func (m *MockInventory) CreateCatalogEntry(ctx context.Context, row domain.Row, unitID, locationID int) domain.CreateResult {
	m.created = append(m.created, row)
	if m.onCreate != nil {
		m.onCreate(row)
	}
	switch m.failBarcode[row.Barcode] {
	case domain.OutcomeFailed:
		return domain.CreateResult{Outcome: domain.OutcomeFailed, Err: errors.New("conflict")}
	case domain.OutcomeOrphaned:
		m.nextID++
		return domain.CreateResult{Outcome: domain.OutcomeOrphaned, ProductID: m.nextID, Err: errors.New("barcode rejected")}
	}
	m.nextID++
	return domain.CreateResult{Outcome: domain.OutcomeCreated, ProductID: m.nextID}
}

// MockWriter is a mock implementation of domain.RowWriter
type MockWriter struct {
	rows     []domain.Row
	called   bool
	writeErr error
}

func (m *MockWriter) WriteRows(rows []domain.Row) error {
	m.called = true
	if m.writeErr != nil {
		return m.writeErr
	}
	m.rows = append([]domain.Row(nil), rows...)
	return nil
}
