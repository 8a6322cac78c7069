package surfacing

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Tracker is the ingestion surface over a ContentStore: it validates drafts
// against the configured categories, stamps identity and expiry, and keeps
// per-category caps enforced opportunistically after every append.
type Tracker struct {
	store      ContentStore
	logger     *log.Logger
	categories map[string]CategoryConfig
	now        func() time.Time
}

// NewTracker creates a tracker for the given category configuration.
// Appends for categories outside the configuration are rejected.
func NewTracker(store ContentStore, logger *log.Logger, categories []CategoryConfig) *Tracker {
	byName := make(map[string]CategoryConfig, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}
	return &Tracker{
		store:      store,
		logger:     logger,
		categories: byName,
		now:        time.Now,
	}
}

// Categories returns the configured categories.
func (t *Tracker) Categories() []CategoryConfig {
	configs := make([]CategoryConfig, 0, len(t.categories))
	for _, c := range t.categories {
		configs = append(configs, c)
	}
	return configs
}

// Append validates a draft, persists it as a new candidate item, and then
// evicts over-cap unsurfaced items in the same category. Eviction failures
// are logged, not returned; the append itself already succeeded.
func (t *Tracker) Append(ctx context.Context, draft Draft) (CandidateItem, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return CandidateItem{}, ValidationError{Field: "content", Reason: "must not be empty"}
	}
	cfg, ok := t.categories[draft.Category]
	if !ok {
		return CandidateItem{}, ValidationError{Field: "category", Reason: "unrecognized category " + draft.Category}
	}

	now := t.now()
	item := CandidateItem{
		ID:        uuid.New().String(),
		Category:  draft.Category,
		Content:   draft.Content,
		CreatedAt: now,
		ExpiresAt: draft.ExpiresAt,
	}
	if item.ExpiresAt == nil && cfg.DefaultTTL > 0 {
		expires := now.Add(cfg.DefaultTTL)
		item.ExpiresAt = &expires
	}

	if err := t.store.Append(ctx, item); err != nil {
		return CandidateItem{}, err
	}

	if cfg.MaxUnsurfaced > 0 {
		evicted, err := t.store.EvictOverCap(ctx, draft.Category, cfg.MaxUnsurfaced)
		if err != nil {
			t.logger.Warn("Failed to evict over-cap items", "category", draft.Category, "error", err)
		} else if evicted > 0 {
			t.logger.Debug("Evicted over-cap items", "category", draft.Category, "count", evicted)
		}
	}

	return item, nil
}

// MarkUsed marks an item as surfaced. Idempotent: repeated calls keep the
// original surfaced_at and note and only grow the reference count.
func (t *Tracker) MarkUsed(ctx context.Context, id string, usageNote string) (bool, error) {
	return t.store.MarkUsed(ctx, id, usageNote)
}
