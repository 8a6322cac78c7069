package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/kayleyai/kayley/pkg/events"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

// MaintenanceOp is a closed union of housekeeping operations. Each variant
// carries its own payload and is executed through one exhaustive switch in
// Apply.
type MaintenanceOp interface {
	maintenanceOp()
}

// EvictOp removes unsurfaced items in a category beyond the cap, oldest
// first.
type EvictOp struct {
	Category      string
	MaxUnsurfaced int
}

// PurgeOp removes items whose expiry has passed.
type PurgeOp struct{}

// DayCacheSweepOp removes day-cache entries from previous days.
type DayCacheSweepOp struct{}

func (EvictOp) maintenanceOp()         {}
func (PurgeOp) maintenanceOp()         {}
func (DayCacheSweepOp) maintenanceOp() {}

// MaintenanceStore is the store surface housekeeping needs.
type MaintenanceStore interface {
	EvictOverCap(ctx context.Context, category string, maxUnsurfaced int) (int, error)
	PurgeExpired(ctx context.Context) (int, error)
	DeleteStaleDayCache(ctx context.Context, now time.Time) (int, error)
}

// Housekeeper enforces per-category caps and expiry as a scheduled job.
type Housekeeper struct {
	store      MaintenanceStore
	publisher  *events.Publisher
	logger     *log.Logger
	categories []surfacing.CategoryConfig
}

func NewHousekeeper(store MaintenanceStore, publisher *events.Publisher, logger *log.Logger, categories []surfacing.CategoryConfig) *Housekeeper {
	return &Housekeeper{
		store:      store,
		publisher:  publisher,
		logger:     logger,
		categories: categories,
	}
}

func (h *Housekeeper) Name() string {
	return "housekeeping"
}

// Run applies one full maintenance pass. Individual op failures are
// collected rather than aborting the pass.
func (h *Housekeeper) Run(ctx context.Context) error {
	var errs []error
	for _, op := range h.ops() {
		if _, err := h.Apply(ctx, op); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Housekeeper) ops() []MaintenanceOp {
	capped := lo.Filter(h.categories, func(c surfacing.CategoryConfig, _ int) bool {
		return c.MaxUnsurfaced > 0
	})
	ops := lo.Map(capped, func(c surfacing.CategoryConfig, _ int) MaintenanceOp {
		return EvictOp{Category: c.Name, MaxUnsurfaced: c.MaxUnsurfaced}
	})
	return append(ops, PurgeOp{}, DayCacheSweepOp{})
}

// Apply executes a single maintenance op and returns how many rows it
// removed.
func (h *Housekeeper) Apply(ctx context.Context, op MaintenanceOp) (int, error) {
	switch op := op.(type) {
	case EvictOp:
		n, err := h.store.EvictOverCap(ctx, op.Category, op.MaxUnsurfaced)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			h.logger.Info("Evicted over-cap items", "category", op.Category, "count", n)
			h.publisher.Publish(events.ItemsEvicted{Category: op.Category, Count: n})
		}
		return n, nil

	case PurgeOp:
		n, err := h.store.PurgeExpired(ctx)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			h.logger.Info("Purged expired items", "count", n)
			h.publisher.Publish(events.ItemsPurged{Count: n})
		}
		return n, nil

	case DayCacheSweepOp:
		n, err := h.store.DeleteStaleDayCache(ctx, time.Now())
		if err != nil {
			return 0, err
		}
		if n > 0 {
			h.logger.Debug("Swept stale day-cache entries", "count", n)
		}
		return n, nil

	default:
		return 0, fmt.Errorf("unhandled maintenance op %T", op)
	}
}
