package domain

// SkipReason explains why a fetched record was not accepted
type SkipReason string

const (
	SkipInvalid   SkipReason = "invalid"
	SkipKnown     SkipReason = "known"
	SkipDuplicate SkipReason = "duplicate"
)

// Counters holds the statistics for one category or for the whole run
type Counters struct {
	New      int
	Skipped  int
	Imported int
	Failed   int
	Orphaned int

	Invalid   int
	Known     int
	Duplicate int
}

// IsZero reports whether nothing was counted
func (c Counters) IsZero() bool {
	return c == Counters{}
}

func (c *Counters) skip(reason SkipReason) {
	c.Skipped++
	switch reason {
	case SkipInvalid:
		c.Invalid++
	case SkipKnown:
		c.Known++
	case SkipDuplicate:
		c.Duplicate++
	}
}

// CategoryCounters pairs a category name with its counters
type CategoryCounters struct {
	Category string
	Counters
}

// RunStats accumulates the statistics of one import run
type RunStats struct {
	RunID         string
	KnownBarcodes int
	Written       int
	Total         Counters

	order      []string
	categories map[string]*Counters
}

// NewRunStats creates empty statistics for the given categories in report order
func NewRunStats(runID string, categories []string) *RunStats {
	s := &RunStats{
		RunID:      runID,
		categories: make(map[string]*Counters, len(categories)),
	}
	for _, name := range categories {
		s.counters(name)
	}
	return s
}

func (s *RunStats) counters(category string) *Counters {
	c, ok := s.categories[category]
	if !ok {
		c = &Counters{}
		s.categories[category] = c
		s.order = append(s.order, category)
	}
	return c
}

// AddNew records an accepted row
func (s *RunStats) AddNew(category string) {
	s.counters(category).New++
	s.Total.New++
}

// AddSkipped records a rejected record
func (s *RunStats) AddSkipped(category string, reason SkipReason) {
	s.counters(category).skip(reason)
	s.Total.skip(reason)
}

// AddCreateResult records the outcome of importing a row
func (s *RunStats) AddCreateResult(category string, result CreateResult) {
	c := s.counters(category)
	switch result.Outcome {
	case OutcomeCreated:
		c.Imported++
		s.Total.Imported++
	case OutcomeOrphaned:
		c.Orphaned++
		s.Total.Orphaned++
	default:
		c.Failed++
		s.Total.Failed++
	}
}

// Category returns the counters of one category
func (s *RunStats) Category(name string) Counters {
	if c, ok := s.categories[name]; ok {
		return *c
	}
	return Counters{}
}

// Categories returns the per-category counters in report order
func (s *RunStats) Categories() []CategoryCounters {
	out := make([]CategoryCounters, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, CategoryCounters{Category: name, Counters: *s.categories[name]})
	}
	return out
}
