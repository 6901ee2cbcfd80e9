package usecase

import (
	"context"
	"log"
	"math/rand"

	"github.com/grocysync/importer/internal/domain"
	"github.com/grocysync/importer/internal/util"
)

// maxRandomPage is the highest result page picked for a category search
const maxRandomPage = 10

// CategoryFetcher issues one randomized search request per category
type CategoryFetcher struct {
	searcher       domain.ProductSearcher
	rng            *rand.Rand
	randomSubterms bool
	debug          bool
}

// NewCategoryFetcher creates a fetcher drawing search terms and pages from rng
func NewCategoryFetcher(searcher domain.ProductSearcher, rng *rand.Rand, randomSubterms, debug bool) *CategoryFetcher {
	return &CategoryFetcher{
		searcher:       searcher,
		rng:            rng,
		randomSubterms: randomSubterms,
		debug:          debug,
	}
}

// NextQuery draws the search term and page for category. The sub-term is
// drawn before the page so a fixed seed always yields the same sequence.
func (f *CategoryFetcher) NextQuery(category domain.Category, count int) domain.SearchQuery {
	term := category.Name
	if f.randomSubterms && len(category.Subterms) > 0 {
		term = category.Subterms[f.rng.Intn(len(category.Subterms))]
	}

	return domain.SearchQuery{
		Term:     term,
		Page:     f.rng.Intn(maxRandomPage) + 1,
		PageSize: count,
	}
}

// Fetch returns the raw records found for category. Failures are logged
// and yield an empty result so the run can continue with other categories.
func (f *CategoryFetcher) Fetch(ctx context.Context, category domain.Category, count int) []domain.RawProduct {
	query := f.NextQuery(category, count)
	log.Printf("[INFO] Searching category: %s (Term: %q, Page: %d)", category.Name, query.Term, query.Page)

	products, err := f.searcher.SearchProducts(ctx, query)
	if err != nil {
		log.Printf("[WARN] Error fetching %s: %v", category.Name, err)
		return nil
	}

	if f.debug {
		for _, p := range products {
			log.Printf("[DEBUG]   -> Raw: %s", describe(p))
		}
	}
	return products
}

// describe renders a short debug line for a raw product
func describe(p domain.RawProduct) string {
	name := util.AsString(p["product_name"])
	if name == "" {
		name = "<no name>"
	}
	return name + " EAN=" + util.AsString(p["code"]) + " Store=" + util.AsString(p["stores"])
}
