package surfacing

import (
	"context"
	"time"
)

// ContentStore is the durable record of candidate items. All operations are
// category-scoped; implementations share one store across categories but
// never need cross-category coordination.
type ContentStore interface {
	// Append inserts a new item. The item must already be validated; the
	// store only persists it.
	Append(ctx context.Context, item CandidateItem) error

	// ListUnsurfaced returns unsurfaced, non-expired items in a category,
	// newest first, capped at limit. maxAge of zero disables the age
	// filter.
	ListUnsurfaced(ctx context.Context, category string, limit int, maxAge time.Duration) ([]CandidateItem, error)

	// MarkUsed records that an item was incorporated into consumer output.
	// The first call sets surfaced_at and the usage note and brings the
	// reference count to one; every later call only increments the count.
	// Returns true when this call performed the first marking, and a
	// NotFoundError when the id is unknown.
	MarkUsed(ctx context.Context, id string, usageNote string) (bool, error)

	// EvictOverCap deletes the oldest unsurfaced items in a category beyond
	// maxUnsurfaced. Surfaced items are historical record and are never
	// evicted. Returns the number of items deleted.
	EvictOverCap(ctx context.Context, category string, maxUnsurfaced int) (int, error)

	// PurgeExpired deletes items whose expiry has passed. Safe on any
	// schedule, including never; ListUnsurfaced already filters them out.
	PurgeExpired(ctx context.Context) (int, error)
}
