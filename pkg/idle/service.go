// Package idle drives Kayley's between-conversation liveliness: on every
// scheduler tick it rolls the configured generators, appends any drafts to
// the surfacing tracker, and keeps the day-level "what I'm up to today"
// cache fresh.
package idle

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kayleyai/kayley/pkg/events"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

// SnapshotFunc supplies the opaque context snapshot handed to generators.
// The service never interprets it.
type SnapshotFunc func(ctx context.Context) any

type Service struct {
	tracker    *surfacing.Tracker
	generators []surfacing.Generator
	publisher  *events.Publisher
	logger     *log.Logger
	snapshot   SnapshotFunc
	daySummary *DaySummarySource
	genTimeout time.Duration
}

type ServiceConfig struct {
	Tracker    *surfacing.Tracker
	Generators []surfacing.Generator
	Publisher  *events.Publisher
	Logger     *log.Logger
	Snapshot   SnapshotFunc
	DaySummary *DaySummarySource
	GenTimeout time.Duration
}

func NewService(config ServiceConfig) *Service {
	return &Service{
		tracker:    config.Tracker,
		generators: config.Generators,
		publisher:  config.Publisher,
		logger:     config.Logger,
		snapshot:   config.Snapshot,
		daySummary: config.DaySummary,
		genTimeout: config.GenTimeout,
	}
}

func (s *Service) Name() string {
	return "idle-generation"
}

// Run executes one generation tick. Each generator runs under its own
// timeout; a timed-out or failed generator simply contributes no candidate
// this tick.
func (s *Service) Run(ctx context.Context) error {
	var snapshot any
	if s.snapshot != nil {
		snapshot = s.snapshot(ctx)
	}
	if s.daySummary != nil {
		if summary := s.daySummary.Refresh(ctx); summary != "" {
			snapshot = combineSnapshot(snapshot, "today: "+summary)
		}
	}

	for _, gen := range s.generators {
		s.runGenerator(ctx, gen, snapshot)
	}
	return nil
}

func (s *Service) runGenerator(ctx context.Context, gen surfacing.Generator, snapshot any) {
	genCtx := ctx
	cancel := func() {}
	if s.genTimeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, s.genTimeout)
	}
	defer cancel()

	draft, err := gen.Generate(genCtx, snapshot)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("Generator timed out, no candidate this tick", "category", gen.Category())
			return
		}
		s.logger.Warn("Generator failed", "category", gen.Category(), "error", err)
		return
	}
	if draft == nil {
		s.logger.Debug("Generator produced no candidate this tick", "category", gen.Category())
		return
	}

	item, err := s.tracker.Append(ctx, *draft)
	if err != nil {
		s.logger.Warn("Failed to append candidate item", "category", draft.Category, "error", err)
		return
	}

	s.logger.Info("Candidate item generated", "id", item.ID, "category", item.Category)
	s.publisher.Publish(events.ItemGenerated{
		ID:        item.ID,
		Category:  item.Category,
		CreatedAt: item.CreatedAt,
	})
}

func combineSnapshot(snapshot any, extra string) any {
	if snapshot == nil {
		return extra
	}
	if text, ok := snapshot.(string); ok {
		return text + "\n" + extra
	}
	return snapshot
}
