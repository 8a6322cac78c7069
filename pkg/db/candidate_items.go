package db

import (
	"context"
	"time"

	"github.com/kayleyai/kayley/pkg/surfacing"
)

// Append inserts a new candidate item.
func (s *Store) Append(ctx context.Context, item surfacing.CandidateItem) error {
	query := s.db.Rebind(`
		INSERT INTO candidate_items (id, category, content, created_at, expires_at, surfaced_at, usage_note, reference_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.Category, item.Content, item.CreatedAt,
		item.ExpiresAt, item.SurfacedAt, item.UsageNote, item.ReferenceCount)
	if err != nil {
		return surfacing.TransientStoreError{Op: "append", Err: err}
	}
	return nil
}

// ListUnsurfaced returns unsurfaced, non-expired items in a category,
// newest first. maxAge of zero disables the age filter.
func (s *Store) ListUnsurfaced(ctx context.Context, category string, limit int, maxAge time.Duration) ([]surfacing.CandidateItem, error) {
	now := time.Now()
	oldest := time.Time{}
	if maxAge > 0 {
		oldest = now.Add(-maxAge)
	}

	var items []surfacing.CandidateItem
	query := s.db.Rebind(`
		SELECT id, category, content, created_at, expires_at, surfaced_at, usage_note, reference_count
		FROM candidate_items
		WHERE category = ?
		  AND surfaced_at IS NULL
		  AND (expires_at IS NULL OR expires_at > ?)
		  AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?
	`)
	err := s.db.SelectContext(ctx, &items, query, category, now, oldest, limit)
	if err != nil {
		return nil, surfacing.TransientStoreError{Op: "list_unsurfaced", Err: err}
	}
	return items, nil
}

// MarkUsed marks an item surfaced, idempotently. The first call sets
// surfaced_at and the usage note with a conditional update ("set only if
// currently null"); later calls land on the atomic increment branch, so
// concurrent scans of the same id never corrupt the reference count.
func (s *Store) MarkUsed(ctx context.Context, id string, usageNote string) (bool, error) {
	first := s.db.Rebind(`
		UPDATE candidate_items
		SET surfaced_at = ?, usage_note = ?, reference_count = 1
		WHERE id = ? AND surfaced_at IS NULL
	`)
	res, err := s.db.ExecContext(ctx, first, time.Now(), usageNote, id)
	if err != nil {
		return false, surfacing.TransientStoreError{Op: "mark_used", Err: err}
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, surfacing.TransientStoreError{Op: "mark_used", Err: err}
	} else if n > 0 {
		return true, nil
	}

	again := s.db.Rebind(`
		UPDATE candidate_items
		SET reference_count = reference_count + 1
		WHERE id = ? AND surfaced_at IS NOT NULL
	`)
	res, err = s.db.ExecContext(ctx, again, id)
	if err != nil {
		return false, surfacing.TransientStoreError{Op: "mark_used", Err: err}
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, surfacing.TransientStoreError{Op: "mark_used", Err: err}
	} else if n == 0 {
		return false, surfacing.NotFoundError{ID: id}
	}
	return false, nil
}

// EvictOverCap deletes the oldest unsurfaced items in a category beyond
// maxUnsurfaced. Surfaced items are never deleted here.
func (s *Store) EvictOverCap(ctx context.Context, category string, maxUnsurfaced int) (int, error) {
	query := s.db.Rebind(`
		DELETE FROM candidate_items
		WHERE category = ?
		  AND surfaced_at IS NULL
		  AND id NOT IN (
			SELECT id FROM candidate_items
			WHERE category = ? AND surfaced_at IS NULL
			ORDER BY created_at DESC
			LIMIT ?
		  )
	`)
	res, err := s.db.ExecContext(ctx, query, category, category, maxUnsurfaced)
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "evict_over_cap", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "evict_over_cap", Err: err}
	}
	return int(n), nil
}

// PurgeExpired deletes items whose expiry has passed.
func (s *Store) PurgeExpired(ctx context.Context) (int, error) {
	query := s.db.Rebind(`
		DELETE FROM candidate_items
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`)
	res, err := s.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "purge_expired", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "purge_expired", Err: err}
	}
	return int(n), nil
}

// GetItem returns a single item by id, surfaced or not. Used by tests and
// audit tooling.
func (s *Store) GetItem(ctx context.Context, id string) (*surfacing.CandidateItem, error) {
	var item surfacing.CandidateItem
	query := s.db.Rebind(`
		SELECT id, category, content, created_at, expires_at, surfaced_at, usage_note, reference_count
		FROM candidate_items
		WHERE id = ?
	`)
	err := s.db.GetContext(ctx, &item, query, id)
	if err != nil {
		return nil, surfacing.NotFoundError{ID: id}
	}
	return &item, nil
}

// CountByCategory returns how many items exist in a category, split by
// surfaced state.
func (s *Store) CountByCategory(ctx context.Context, category string) (unsurfaced, surfaced int, err error) {
	query := s.db.Rebind(`
		SELECT
		  COUNT(CASE WHEN surfaced_at IS NULL THEN 1 END),
		  COUNT(CASE WHEN surfaced_at IS NOT NULL THEN 1 END)
		FROM candidate_items
		WHERE category = ?
	`)
	row := s.db.QueryRowContext(ctx, query, category)
	if err := row.Scan(&unsurfaced, &surfaced); err != nil {
		return 0, 0, surfacing.TransientStoreError{Op: "count_by_category", Err: err}
	}
	return unsurfaced, surfaced, nil
}
