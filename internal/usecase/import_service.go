package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/grocysync/importer/internal/domain"
)

// minPerCategory is the smallest number of products requested per category
const minPerCategory = 10

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	Categories     []domain.Category
	Language       string
	Limit          int
	RandomSubterms bool
	Import         bool
	UnitName       string
	LocationName   string
	FetchDelay     time.Duration // pause between category searches, 0 disables
	CreateDelay    time.Duration // pause between product creations, 0 disables
	Debug          bool
}

// ImportService runs the fetch, normalize, dedupe and import pipeline
type ImportService struct {
	inventory   domain.InventoryClient
	writer      domain.RowWriter
	fetcher     *CategoryFetcher
	normalizer  *Normalizer
	config      ImportServiceConfig
	fetchPacer  *rate.Limiter
	createPacer *rate.Limiter
}

// NewImportService creates a new import service with dependencies.
// A nil rng is replaced by a time-seeded generator.
func NewImportService(
	searcher domain.ProductSearcher,
	inventory domain.InventoryClient,
	writer domain.RowWriter,
	rng *rand.Rand,
	config ImportServiceConfig,
) *ImportService {
	if len(config.Categories) == 0 {
		config.Categories = domain.DefaultCategories()
	}
	if config.Limit <= 0 {
		config.Limit = 200
	}
	if config.UnitName == "" {
		config.UnitName = "Stück"
	}
	if config.LocationName == "" {
		config.LocationName = "Vorrat"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &ImportService{
		inventory:   inventory,
		writer:      writer,
		fetcher:     NewCategoryFetcher(searcher, rng, config.RandomSubterms, config.Debug),
		normalizer:  NewNormalizer(config.Language),
		config:      config,
		fetchPacer:  newPacer(config.FetchDelay),
		createPacer: newPacer(config.CreateDelay),
	}
}

// newPacer allows one event per interval; a non-positive interval never waits
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// PerCategory returns how many products are requested for each category
func (s *ImportService) PerCategory() int {
	return max(minPerCategory, s.config.Limit/len(s.config.Categories))
}

// Run executes one import run.
// Flow: load known barcodes -> fetch and filter every category -> dedupe
// -> cap -> write file -> optionally create products in Grocy
func (s *ImportService) Run(ctx context.Context) (*domain.RunStats, error) {
	stats := domain.NewRunStats(uuid.NewString(), domain.CategoryNames(s.config.Categories))

	log.Printf("[INFO] Loading existing barcodes from Grocy (run %s)", stats.RunID)
	known, err := s.inventory.FetchKnownBarcodes(ctx)
	if err != nil {
		return nil, err
	}
	stats.KnownBarcodes = known.Len()
	log.Printf("[OK] %d existing barcodes loaded.", known.Len())

	rows, err := s.collect(ctx, known, stats)
	if err != nil {
		return stats, err
	}

	rows = Deduplicate(rows)
	if len(rows) > s.config.Limit {
		rows = rows[:s.config.Limit]
	}

	log.Printf("[OK] Writing output (%d new products)", len(rows))
	if err := s.writer.WriteRows(rows); err != nil {
		return stats, fmt.Errorf("failed to write output: %w", err)
	}
	stats.Written = len(rows)

	if s.config.Import && len(rows) > 0 {
		if err := s.importRows(ctx, rows, stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// collect fetches every category and returns the accepted rows in order
func (s *ImportService) collect(ctx context.Context, known *domain.BarcodeSet, stats *domain.RunStats) ([]domain.Row, error) {
	perCategory := s.PerCategory()
	accepted := make([]domain.Row, 0, s.config.Limit)
	seen := make(map[string]struct{})

	for _, category := range s.config.Categories {
		if err := s.fetchPacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search interrupted: %w", err)
		}

		for _, p := range s.fetcher.Fetch(ctx, category, perCategory) {
			row, ok := s.normalizer.Normalize(p, category.Name)
			if !ok {
				stats.AddSkipped(category.Name, domain.SkipInvalid)
				continue
			}
			if known.Contains(row.Barcode) {
				s.debugLog("   already in Grocy, skipped [%s] %s", row.Barcode, row.Name)
				stats.AddSkipped(category.Name, domain.SkipKnown)
				continue
			}
			if _, dup := seen[row.Barcode]; dup {
				s.debugLog("   duplicate in this run, skipped [%s] %s", row.Barcode, row.Name)
				stats.AddSkipped(category.Name, domain.SkipDuplicate)
				continue
			}

			seen[row.Barcode] = struct{}{}
			s.debugLog("   new %s [%s]", row.Name, row.Barcode)
			accepted = append(accepted, row)
			stats.AddNew(category.Name)
		}
	}

	// a search cancelled mid-flight only shows up as an empty category
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}

	return accepted, nil
}

// importRows creates every row in Grocy, one request pair at a time
func (s *ImportService) importRows(ctx context.Context, rows []domain.Row, stats *domain.RunStats) error {
	log.Printf("[INFO] Importing new products into Grocy …")

	unit, err := s.inventory.EnsureReference(ctx, domain.ReferenceQuantityUnit, s.config.UnitName)
	if err != nil {
		return fmt.Errorf("failed to ensure quantity unit %q: %w", s.config.UnitName, err)
	}
	s.debugLog("quantity unit %q %s (id %d)", s.config.UnitName, unit.Outcome, unit.ID)

	location, err := s.inventory.EnsureReference(ctx, domain.ReferenceLocation, s.config.LocationName)
	if err != nil {
		return fmt.Errorf("failed to ensure location %q: %w", s.config.LocationName, err)
	}
	s.debugLog("location %q %s (id %d)", s.config.LocationName, location.Outcome, location.ID)

	for _, row := range rows {
		if err := s.createPacer.Wait(ctx); err != nil {
			return fmt.Errorf("import interrupted: %w", err)
		}

		result := s.inventory.CreateCatalogEntry(ctx, row, unit.ID, location.ID)
		stats.AddCreateResult(row.Category, result)

		switch result.Outcome {
		case domain.OutcomeOrphaned:
			log.Printf("[WARN] Product %d (%s) created without barcode %s: %v", result.ProductID, row.Name, row.Barcode, result.Err)
		case domain.OutcomeFailed:
			s.debugLog("   import failed [%s] %s: %v", row.Barcode, row.Name, result.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import interrupted: %w", err)
	}

	return nil
}

func (s *ImportService) debugLog(format string, args ...any) {
	if s.config.Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
