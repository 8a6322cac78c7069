package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kayleyai/kayley/pkg/events"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

type mockMaintenanceStore struct {
	mock.Mock
}

func (m *mockMaintenanceStore) EvictOverCap(ctx context.Context, category string, maxUnsurfaced int) (int, error) {
	args := m.Called(ctx, category, maxUnsurfaced)
	return args.Int(0), args.Error(1)
}

func (m *mockMaintenanceStore) PurgeExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockMaintenanceStore) DeleteStaleDayCache(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func newTestHousekeeper(store MaintenanceStore, categories []surfacing.CategoryConfig) *Housekeeper {
	logger := log.New(os.Stdout)
	return NewHousekeeper(store, events.NewPublisher(nil, logger), logger, categories)
}

func TestHousekeeperRunCoversAllOps(t *testing.T) {
	store := new(mockMaintenanceStore)
	store.On("EvictOverCap", mock.Anything, "activity", 5).Return(2, nil)
	store.On("EvictOverCap", mock.Anything, "mood", 3).Return(0, nil)
	store.On("PurgeExpired", mock.Anything).Return(1, nil)
	store.On("DeleteStaleDayCache", mock.Anything, mock.Anything).Return(1, nil)

	h := newTestHousekeeper(store, []surfacing.CategoryConfig{
		{Name: "activity", MaxUnsurfaced: 5},
		{Name: "mood", MaxUnsurfaced: 3},
		{Name: "question"}, // uncapped, no evict op
	})

	require.NoError(t, h.Run(context.Background()))
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "EvictOverCap", 2)
}

func TestHousekeeperCollectsFailures(t *testing.T) {
	store := new(mockMaintenanceStore)
	evictErr := errors.New("evict failed")
	purgeErr := errors.New("purge failed")
	store.On("EvictOverCap", mock.Anything, "activity", 5).Return(0, evictErr)
	store.On("PurgeExpired", mock.Anything).Return(0, purgeErr)
	store.On("DeleteStaleDayCache", mock.Anything, mock.Anything).Return(0, nil)

	h := newTestHousekeeper(store, []surfacing.CategoryConfig{{Name: "activity", MaxUnsurfaced: 5}})

	err := h.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, evictErr)
	assert.ErrorIs(t, err, purgeErr)
	// A failed evict must not short-circuit the rest of the pass.
	store.AssertCalled(t, "DeleteStaleDayCache", mock.Anything, mock.Anything)
}

func TestHousekeeperApplyDispatch(t *testing.T) {
	store := new(mockMaintenanceStore)
	store.On("EvictOverCap", mock.Anything, "mood", 4).Return(3, nil)
	store.On("PurgeExpired", mock.Anything).Return(2, nil)
	store.On("DeleteStaleDayCache", mock.Anything, mock.Anything).Return(1, nil)

	h := newTestHousekeeper(store, nil)
	ctx := context.Background()

	n, err := h.Apply(ctx, EvictOp{Category: "mood", MaxUnsurfaced: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = h.Apply(ctx, PurgeOp{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = h.Apply(ctx, DayCacheSweepOp{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHousekeeperApplyRejectsUnknownOp(t *testing.T) {
	h := newTestHousekeeper(new(mockMaintenanceStore), nil)

	_, err := h.Apply(context.Background(), unknownOp{})
	require.Error(t, err)
}

type unknownOp struct{}

func (unknownOp) maintenanceOp() {}
