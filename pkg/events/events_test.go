package events

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectMapping(t *testing.T) {
	cases := []struct {
		event   Event
		subject string
	}{
		{ItemGenerated{}, "surfacing.item.generated"},
		{ItemSelected{}, "surfacing.item.selected"},
		{ItemUsed{}, "surfacing.item.used"},
		{ItemsEvicted{}, "surfacing.items.evicted"},
		{ItemsPurged{}, "surfacing.items.purged"},
	}

	for _, tc := range cases {
		subject, err := Subject(tc.event)
		require.NoError(t, err)
		assert.Equal(t, tc.subject, subject)
	}
}

type unregisteredEvent struct{}

func (unregisteredEvent) event() {}

func TestSubjectRejectsUnknownVariant(t *testing.T) {
	_, err := Subject(unregisteredEvent{})
	require.Error(t, err)
}

func TestItemGeneratedPayload(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(ItemGenerated{ID: "abc", Category: "activity", CreatedAt: createdAt})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "abc", decoded["id"])
	assert.Equal(t, "activity", decoded["category"])
	assert.Contains(t, decoded, "created_at")
}

func TestPublisherWithoutConnection(t *testing.T) {
	p := NewPublisher(nil, log.New(os.Stdout))

	// Must be a no-op, not a panic.
	p.Publish(ItemsPurged{Count: 3})
	p.Publish(unregisteredEvent{})
}
