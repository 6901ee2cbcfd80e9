package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/grocysync/importer/internal/domain"
	"github.com/grocysync/importer/internal/util"
)

const (
	// PlaceholderName is used when a product carries no usable name
	PlaceholderName = "Unbenanntes Produkt"

	// UnknownCategory is used for rows fetched without a category
	UnknownCategory = "Unbekannt"
)

// barcodePattern accepts EAN-8 and UPC-A/EAN-13/GTIN-14 lengths
var barcodePattern = regexp.MustCompile(`^(?:[0-9]{8}|[0-9]{12,14})$`)

// ValidBarcode reports whether code, after trimming, is 8 or 12-14 digits
func ValidBarcode(code string) bool {
	return barcodePattern.MatchString(strings.TrimSpace(code))
}

// Normalizer converts raw search records into canonical rows
type Normalizer struct {
	nameKeys []string
	titler   cases.Caser
}

// NewNormalizer creates a normalizer that prefers names localized for lang
func NewNormalizer(lang string) *Normalizer {
	keys := make([]string, 0, 3)
	if lang = strings.TrimSpace(lang); lang != "" {
		keys = append(keys, "product_name_"+lang)
	}
	keys = append(keys, "product_name", "generic_name")

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}

	return &Normalizer{
		nameKeys: keys,
		titler:   cases.Title(tag),
	}
}

// ResolveName picks the first non-empty of localized name, product name,
// generic name and humanized first category tag, falling back to PlaceholderName
func (n *Normalizer) ResolveName(p domain.RawProduct) string {
	for _, key := range n.nameKeys {
		if name := util.AsString(p[key]); name != "" {
			return name
		}
	}

	if tags := util.AsStrings(p["categories_tags"]); len(tags) > 0 {
		if name := n.humanizeTag(tags[0]); name != "" {
			return name
		}
	}

	return PlaceholderName
}

// humanizeTag turns "en:frozen-pizzas" into "Frozen Pizzas"
func (n *Normalizer) humanizeTag(tag string) string {
	if idx := strings.LastIndex(tag, ":"); idx >= 0 {
		tag = tag[idx+1:]
	}
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "-", " "))
	return n.titler.String(tag)
}

// Normalize maps a raw record fetched under category to a Row.
// The second return value is false when the record has no valid barcode.
func (n *Normalizer) Normalize(p domain.RawProduct, category string) (domain.Row, bool) {
	code := util.AsString(p["code"])
	if !ValidBarcode(code) {
		return domain.Row{}, false
	}

	if category == "" {
		category = UnknownCategory
	}

	return domain.Row{
		Name:     n.ResolveName(p),
		Barcode:  code,
		Brand:    util.FirstToken(util.AsString(p["brands"])),
		Store:    util.FirstToken(util.AsString(p["stores"])),
		Quantity: util.AsString(p["quantity"]),
		Category: category,
	}, true
}
