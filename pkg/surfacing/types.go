// Package surfacing implements the candidate-content lifecycle behind
// Kayley's liveliness features: idle thoughts, engagement nudges, and
// learned discoveries are generated ahead of time, offered to the
// conversation layer in bounded rounds, and marked used exactly once so
// they are never repeated.
package surfacing

import (
	"time"
)

// CandidateItem is a unit of generated content awaiting possible use.
// Once surfaced it is retained as historical record and never offered again.
type CandidateItem struct {
	ID             string     `db:"id" json:"id"`
	Category       string     `db:"category" json:"category"`
	Content        string     `db:"content" json:"content"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	SurfacedAt     *time.Time `db:"surfaced_at" json:"surfacedAt,omitempty"`
	UsageNote      *string    `db:"usage_note" json:"usageNote,omitempty"`
	ReferenceCount int        `db:"reference_count" json:"referenceCount"`
}

// Surfaced reports whether the item has been incorporated into consumer
// output. The transition is one-way: surfaced_at is never cleared.
func (i CandidateItem) Surfaced() bool {
	return i.SurfacedAt != nil
}

// Expired reports whether the item is past its expiry at the given instant.
// Items without an expiry never expire.
func (i CandidateItem) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now)
}

// Draft is the output of a CandidateGenerator before it is persisted.
// ExpiresAt, when set, overrides the category's default TTL.
type Draft struct {
	Category  string
	Content   string
	ExpiresAt *time.Time
}

// CategoryConfig describes one content category known to the tracker.
type CategoryConfig struct {
	// Name is the category tag, e.g. "activity", "mood", "discovery".
	Name string

	// MaxUnsurfaced caps how many unsurfaced items the store retains for
	// this category. Oldest items are evicted first once the cap is
	// exceeded. Surfaced items are exempt.
	MaxUnsurfaced int

	// DefaultTTL is applied to drafts that carry no explicit expiry.
	// Zero means items never expire.
	DefaultTTL time.Duration
}
