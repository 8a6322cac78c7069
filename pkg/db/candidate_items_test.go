package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kayleyai/kayley/pkg/surfacing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "surfacing_test.db")
	store, err := NewStore(context.Background(), dbPath, log.New(os.Stdout))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func appendItem(t *testing.T, store *Store, category, content string, createdAt time.Time, expiresAt *time.Time) surfacing.CandidateItem {
	t.Helper()

	item := surfacing.CandidateItem{
		ID:        content + "-" + createdAt.Format(time.RFC3339Nano),
		Category:  category,
		Content:   content,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
	if err := store.Append(context.Background(), item); err != nil {
		t.Fatalf("Failed to append item: %v", err)
	}
	return item
}

func TestListUnsurfacedOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	appendItem(t, store, "activity", "older", now.Add(-2*time.Hour), nil)
	appendItem(t, store, "activity", "newer", now.Add(-1*time.Hour), nil)
	appendItem(t, store, "mood", "other category", now, nil)

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Content != "newer" || items[1].Content != "older" {
		t.Errorf("Expected newest-first ordering, got %q then %q", items[0].Content, items[1].Content)
	}
}

func TestListUnsurfacedExcludesExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	expired := now.Add(-1 * time.Hour)
	appendItem(t, store, "activity", "already expired", now.Add(-2*time.Hour), &expired)

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected expired item to be excluded, got %d items", len(items))
	}
}

func TestListUnsurfacedMaxAge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	appendItem(t, store, "activity", "ancient", now.Add(-40*24*time.Hour), nil)
	appendItem(t, store, "activity", "recent", now.Add(-1*time.Hour), nil)

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 1 || items[0].Content != "recent" {
		t.Fatalf("Expected only the recent item, got %d items", len(items))
	}

	// Zero maxAge disables the filter.
	items, err = store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected both items with no age filter, got %d", len(items))
	}
}

func TestMarkUsedIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := appendItem(t, store, "activity", "chord progression", time.Now(), nil)

	first, err := store.MarkUsed(ctx, item.ID, "first note")
	if err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	if !first {
		t.Error("Expected first MarkUsed to report first=true")
	}

	stored, err := store.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if stored.SurfacedAt == nil {
		t.Fatal("Expected surfaced_at to be set")
	}
	if stored.ReferenceCount != 1 {
		t.Errorf("Expected reference_count 1, got %d", stored.ReferenceCount)
	}
	firstSurfacedAt := *stored.SurfacedAt

	second, err := store.MarkUsed(ctx, item.ID, "second note")
	if err != nil {
		t.Fatalf("Second MarkUsed failed: %v", err)
	}
	if second {
		t.Error("Expected second MarkUsed to report first=false")
	}

	stored, err = store.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !stored.SurfacedAt.Equal(firstSurfacedAt) {
		t.Errorf("surfaced_at changed on second MarkUsed: %v vs %v", stored.SurfacedAt, firstSurfacedAt)
	}
	if stored.UsageNote == nil || *stored.UsageNote != "first note" {
		t.Errorf("Expected original usage note to be kept, got %v", stored.UsageNote)
	}
	if stored.ReferenceCount != 2 {
		t.Errorf("Expected reference_count 2, got %d", stored.ReferenceCount)
	}
}

func TestMarkUsedUnknownID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	appendItem(t, store, "activity", "untouched", time.Now(), nil)

	_, err := store.MarkUsed(ctx, "nonexistent-id", "note")
	if !surfacing.IsNotFound(err) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected store state unchanged, got %d unsurfaced items", len(items))
	}
}

func TestMarkedItemsNotListed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := appendItem(t, store, "activity", "surfaced soon", time.Now(), nil)
	if _, err := store.MarkUsed(ctx, item.ID, "used"); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected surfaced item to be excluded, got %d items", len(items))
	}
}

func TestEvictOverCapKeepsNewestUnsurfaced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	appendItem(t, store, "activity", "first", now.Add(-3*time.Hour), nil)
	appendItem(t, store, "activity", "second", now.Add(-2*time.Hour), nil)
	appendItem(t, store, "activity", "third", now.Add(-1*time.Hour), nil)

	evicted, err := store.EvictOverCap(ctx, "activity", 2)
	if err != nil {
		t.Fatalf("EvictOverCap failed: %v", err)
	}
	if evicted != 1 {
		t.Errorf("Expected 1 eviction, got %d", evicted)
	}

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 retained items, got %d", len(items))
	}
	if items[0].Content != "third" || items[1].Content != "second" {
		t.Errorf("Expected the two newest retained, got %q then %q", items[0].Content, items[1].Content)
	}

	// The oldest item is gone from the store entirely, not just filtered.
	unsurfaced, surfaced, err := store.CountByCategory(ctx, "activity")
	if err != nil {
		t.Fatalf("CountByCategory failed: %v", err)
	}
	if unsurfaced != 2 || surfaced != 0 {
		t.Errorf("Expected 2 unsurfaced / 0 surfaced, got %d / %d", unsurfaced, surfaced)
	}
}

func TestEvictOverCapSparesSurfacedItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	old := appendItem(t, store, "activity", "old but surfaced", now.Add(-5*time.Hour), nil)
	if _, err := store.MarkUsed(ctx, old.ID, "used"); err != nil {
		t.Fatalf("MarkUsed failed: %v", err)
	}
	appendItem(t, store, "activity", "a", now.Add(-3*time.Hour), nil)
	appendItem(t, store, "activity", "b", now.Add(-2*time.Hour), nil)
	appendItem(t, store, "activity", "c", now.Add(-1*time.Hour), nil)

	if _, err := store.EvictOverCap(ctx, "activity", 2); err != nil {
		t.Fatalf("EvictOverCap failed: %v", err)
	}

	if _, err := store.GetItem(ctx, old.ID); err != nil {
		t.Errorf("Surfaced item should survive eviction: %v", err)
	}

	unsurfaced, surfaced, err := store.CountByCategory(ctx, "activity")
	if err != nil {
		t.Fatalf("CountByCategory failed: %v", err)
	}
	if unsurfaced != 2 || surfaced != 1 {
		t.Errorf("Expected 2 unsurfaced / 1 surfaced, got %d / %d", unsurfaced, surfaced)
	}
}

func TestPurgeExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-1 * time.Hour)
	future := now.Add(1 * time.Hour)
	appendItem(t, store, "activity", "gone", now.Add(-2*time.Hour), &past)
	appendItem(t, store, "activity", "kept", now.Add(-2*time.Hour), &future)
	appendItem(t, store, "activity", "immortal", now.Add(-2*time.Hour), nil)

	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged item, got %d", purged)
	}

	items, err := store.ListUnsurfaced(ctx, "activity", 10, 0)
	if err != nil {
		t.Fatalf("ListUnsurfaced failed: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected 2 remaining items, got %d", len(items))
	}
}
