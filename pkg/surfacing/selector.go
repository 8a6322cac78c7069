package surfacing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

const hoursPerDay = 24

// Selector produces bounded rounds of unsurfaced candidates for inclusion
// in an outbound payload. Reads that fail transiently degrade to an empty
// round; a missing idle thought is never worth blocking the response path.
type Selector struct {
	store       ContentStore
	logger      *log.Logger
	maxCeiling  int
	now         func() time.Time
}

// NewSelector creates a selector. maxCeiling bounds the per-category
// maxItems argument accepted by Select.
func NewSelector(store ContentStore, logger *log.Logger, maxCeiling int) *Selector {
	return &Selector{
		store:      store,
		logger:     logger,
		maxCeiling: maxCeiling,
		now:        time.Now,
	}
}

// Select returns one round of at most maxItems unsurfaced, non-expired
// items from a category, newest first. maxAgeDays of zero disables the age
// filter. Arguments outside their ranges return an InvalidArgumentError.
func (s *Selector) Select(ctx context.Context, category string, maxItems int, maxAgeDays int) (*Round, error) {
	round := newRound(s.now())
	items, err := s.selectCategory(ctx, category, maxItems, maxAgeDays)
	if err != nil {
		return nil, err
	}
	round.add(category, items)
	return round, nil
}

// SelectAcrossCategories runs one selection per category. Budgets are
// independent: exhausting one category never borrows from another, so the
// combined count never exceeds the sum of the per-category limits.
func (s *Selector) SelectAcrossCategories(ctx context.Context, categoryLimits map[string]int, maxAgeDays int) (*Round, error) {
	round := newRound(s.now())

	categories := lo.Keys(categoryLimits)
	sort.Strings(categories)

	for _, category := range categories {
		items, err := s.selectCategory(ctx, category, categoryLimits[category], maxAgeDays)
		if err != nil {
			return nil, err
		}
		round.add(category, items)
	}
	return round, nil
}

func (s *Selector) selectCategory(ctx context.Context, category string, maxItems int, maxAgeDays int) ([]CandidateItem, error) {
	if maxItems < 0 || maxItems > s.maxCeiling {
		return nil, InvalidArgumentError{
			Arg:    "maxItems",
			Reason: fmt.Sprintf("%d outside [0, %d]", maxItems, s.maxCeiling),
		}
	}
	if maxAgeDays < 0 {
		return nil, InvalidArgumentError{
			Arg:    "maxAgeDays",
			Reason: fmt.Sprintf("%d is negative", maxAgeDays),
		}
	}
	if maxItems == 0 {
		return nil, nil
	}

	maxAge := time.Duration(maxAgeDays) * hoursPerDay * time.Hour
	items, err := s.store.ListUnsurfaced(ctx, category, maxItems, maxAge)
	if err != nil {
		if IsTransient(err) {
			s.logger.Warn("Store unavailable during selection, returning empty set",
				"category", category, "error", err)
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
