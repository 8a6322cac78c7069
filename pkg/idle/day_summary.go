package idle

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"

	"github.com/kayleyai/kayley/pkg/ai"
	"github.com/kayleyai/kayley/pkg/db"
	"github.com/kayleyai/kayley/pkg/prompts"
)

// dayCacheCategory keys the daily summary in the day cache.
const dayCacheCategory = "day_summary"

// DayCache is the slice of the store the daily summary needs.
type DayCache interface {
	GetDayCache(ctx context.Context, category string, now time.Time) (*db.DayCacheEntry, error)
	SetDayCache(ctx context.Context, category, content string, now time.Time) error
}

// DaySummarySource produces and caches one "what my day looks like" sketch
// per calendar day. The cache entry is keyed by day boundary; staleness is
// decided by comparison against the current day, never by mutation.
type DaySummarySource struct {
	cache   DayCache
	ai      ai.Completion
	model   string
	persona string
	logger  *log.Logger
}

func NewDaySummarySource(cache DayCache, completion ai.Completion, model, persona string, logger *log.Logger) *DaySummarySource {
	return &DaySummarySource{
		cache:   cache,
		ai:      completion,
		model:   model,
		persona: persona,
		logger:  logger,
	}
}

// Refresh returns today's summary, generating and caching it if today has
// no entry yet. Failures degrade to an empty summary; the tick goes on
// without one.
func (d *DaySummarySource) Refresh(ctx context.Context) string {
	now := time.Now()

	entry, err := d.cache.GetDayCache(ctx, dayCacheCategory, now)
	if err != nil {
		d.logger.Warn("Failed to read day cache", "error", err)
		return ""
	}
	if entry != nil {
		return entry.Content
	}

	prompt, err := prompts.BuildDaySummaryPrompt(prompts.DaySummaryPrompt{
		Persona: d.persona,
		Weekday: now.Weekday().String(),
	})
	if err != nil {
		d.logger.Warn("Failed to build day summary prompt", "error", err)
		return ""
	}

	message, err := d.ai.Completions(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt),
	}, d.model)
	if err != nil {
		d.logger.Warn("Failed to generate day summary", "error", err)
		return ""
	}

	summary := strings.TrimSpace(message.Content)
	if summary == "" {
		return ""
	}

	if err := d.cache.SetDayCache(ctx, dayCacheCategory, summary, now); err != nil {
		d.logger.Warn("Failed to cache day summary", "error", err)
	}
	return summary
}
