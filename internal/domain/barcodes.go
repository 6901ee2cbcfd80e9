package domain

import "strings"

// BarcodeSet is an immutable set of barcodes known to the inventory system.
// It is built once per run and only used for membership tests.
type BarcodeSet struct {
	codes map[string]struct{}
}

// NewBarcodeSet builds a set from the given codes, trimming whitespace and
// ignoring empty entries
func NewBarcodeSet(codes ...string) *BarcodeSet {
	set := &BarcodeSet{codes: make(map[string]struct{}, len(codes))}
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		set.codes[code] = struct{}{}
	}
	return set
}

// Contains reports whether the barcode is already on file
func (s *BarcodeSet) Contains(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.codes[strings.TrimSpace(code)]
	return ok
}

// Len returns the number of distinct barcodes in the set
func (s *BarcodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}
