package domain

// RawProduct is a single product record as returned by the search API.
// Field presence and types vary between records; numbers are decoded as json.Number.
type RawProduct map[string]any

// Row is the canonical, validated representation of a product
type Row struct {
	Name     string
	Barcode  string
	Brand    string
	Store    string
	Quantity string
	Category string
}

// Description is the text stored as the inventory product description
func (r Row) Description() string {
	switch {
	case r.Brand == "":
		return r.Quantity
	case r.Quantity == "":
		return r.Brand
	default:
		return r.Brand + " " + r.Quantity
	}
}

// SearchQuery holds the parameters chosen for one product search request
type SearchQuery struct {
	Term     string
	Page     int
	PageSize int
}
