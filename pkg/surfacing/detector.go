package surfacing

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kayleyai/kayley/pkg/events"
)

// DefaultUsageNoteLength caps the stored usage note.
const DefaultUsageNoteLength = 200

// UsageMarker is the slice of the tracker the detector needs. Satisfied by
// *Tracker and by any ContentStore.
type UsageMarker interface {
	MarkUsed(ctx context.Context, id string, usageNote string) (bool, error)
}

// Detector confirms, from the consumer's downstream output, which offered
// items were actually used, and marks them. Only items from the scanned
// round are eligible; the unsurfaced pool at large is never matched against
// arbitrary text.
type Detector struct {
	marker     UsageMarker
	matcher    Matcher
	publisher  *events.Publisher
	logger     *log.Logger
	noteLength int
}

// NewDetector creates a detector using the given matcher policy. Confirmed
// uses are announced through the publisher.
func NewDetector(marker UsageMarker, matcher Matcher, publisher *events.Publisher, logger *log.Logger) *Detector {
	return &Detector{
		marker:     marker,
		matcher:    matcher,
		publisher:  publisher,
		logger:     logger,
		noteLength: DefaultUsageNoteLength,
	}
}

// Scan checks every item in the round against the output and marks matches
// used. Zero matches is a normal outcome. Marking failures are logged and
// swallowed: a missed mark only risks re-offering the item next round,
// which is self-healing. When several items match the same output, all of
// them are marked; over-marking costs less than repetition.
func (d *Detector) Scan(ctx context.Context, round *Round, output string) []string {
	if round == nil || round.Len() == 0 || output == "" {
		return nil
	}

	note := truncate(output, d.noteLength)

	var matched []string
	for _, item := range round.Items() {
		if !d.matcher.Matches(item.Content, output) {
			continue
		}
		matched = append(matched, item.ID)

		first, err := d.marker.MarkUsed(ctx, item.ID, note)
		if err != nil {
			d.logger.Warn("Failed to mark candidate item used",
				"id", item.ID, "category", item.Category, "error", err)
			continue
		}
		if first {
			d.logger.Debug("Candidate item surfaced", "id", item.ID, "category", item.Category)
		} else {
			d.logger.Debug("Candidate item referenced again", "id", item.ID, "category", item.Category)
		}
		if d.publisher != nil {
			d.publisher.Publish(events.ItemUsed{ID: item.ID, Category: item.Category, FirstSurfaced: first})
		}
	}
	return matched
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
