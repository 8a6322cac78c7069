// Package events publishes surfacing lifecycle events over NATS. Publishing
// is fire-and-forget: failures are logged and never reach the caller's
// control flow.
package events

import (
	"fmt"
	"time"
)

// Event is a closed union of surfacing lifecycle events. Each variant
// carries its own typed payload and is dispatched to a subject through one
// exhaustive switch; strings never drive control flow.
type Event interface {
	event()
}

// ItemGenerated is emitted when a generator's draft has been appended.
type ItemGenerated struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemSelected is emitted once per item offered in a selection round.
type ItemSelected struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	RoundAt   time.Time `json:"round_at"`
}

// ItemUsed is emitted when the detector confirms an item in output.
type ItemUsed struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	FirstSurfaced bool   `json:"first_surfaced"`
}

// ItemsEvicted is emitted after a cap-based eviction removed items.
type ItemsEvicted struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ItemsPurged is emitted after an expiry sweep removed items.
type ItemsPurged struct {
	Count int `json:"count"`
}

func (ItemGenerated) event() {}
func (ItemSelected) event()  {}
func (ItemUsed) event()      {}
func (ItemsEvicted) event()  {}
func (ItemsPurged) event()   {}

// Subject maps an event variant to its NATS subject.
func Subject(e Event) (string, error) {
	switch e.(type) {
	case ItemGenerated:
		return "surfacing.item.generated", nil
	case ItemSelected:
		return "surfacing.item.selected", nil
	case ItemUsed:
		return "surfacing.item.used", nil
	case ItemsEvicted:
		return "surfacing.items.evicted", nil
	case ItemsPurged:
		return "surfacing.items.purged", nil
	default:
		return "", fmt.Errorf("unhandled event type %T", e)
	}
}
