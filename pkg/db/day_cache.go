package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kayleyai/kayley/pkg/surfacing"
)

// DayCacheEntry holds per-category content that is only valid for one
// calendar day, e.g. "what Kayley is up to today".
type DayCacheEntry struct {
	Category  string    `db:"category"`
	Day       string    `db:"day"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// DayKey formats the day boundary used to key cache entries.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DayCacheStale reports whether an entry keyed at entryDay is stale at now.
// Staleness is a pure time comparison; entries are never mutated in place.
func DayCacheStale(entryDay string, now time.Time) bool {
	return entryDay != DayKey(now)
}

// GetDayCache returns the entry for (category, today), or nil when absent
// or stale.
func (s *Store) GetDayCache(ctx context.Context, category string, now time.Time) (*DayCacheEntry, error) {
	var entry DayCacheEntry
	query := s.db.Rebind(`
		SELECT category, day, content, created_at
		FROM day_cache
		WHERE category = ? AND day = ?
	`)
	err := s.db.GetContext(ctx, &entry, query, category, DayKey(now))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, surfacing.TransientStoreError{Op: "get_day_cache", Err: err}
	}
	if DayCacheStale(entry.Day, now) {
		return nil, nil
	}
	return &entry, nil
}

// SetDayCache upserts the entry for (category, today).
func (s *Store) SetDayCache(ctx context.Context, category, content string, now time.Time) error {
	query := s.db.Rebind(`
		INSERT INTO day_cache (category, day, content, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (category, day) DO UPDATE SET content = excluded.content
	`)
	_, err := s.db.ExecContext(ctx, query, category, DayKey(now), content, now)
	if err != nil {
		return surfacing.TransientStoreError{Op: "set_day_cache", Err: err}
	}
	return nil
}

// DeleteStaleDayCache removes entries from previous days.
func (s *Store) DeleteStaleDayCache(ctx context.Context, now time.Time) (int, error) {
	query := s.db.Rebind(`DELETE FROM day_cache WHERE day <> ?`)
	res, err := s.db.ExecContext(ctx, query, DayKey(now))
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "delete_stale_day_cache", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, surfacing.TransientStoreError{Op: "delete_stale_day_cache", Err: err}
	}
	return int(n), nil
}
