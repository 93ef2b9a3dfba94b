package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StorePublisher_Emit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewStorePublisher(store)

	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(ctx, Event{
		Timestamp: ts,
		Subject:   "jane@example.com",
		Action:    ActionReportGenerated,
		Category:  "allbreaches",
		Format:    "csv",
	}))

	events, err := pub.List(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionReportGenerated, events[0].Action)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, "allbreaches", events[0].Category)
}

func Test_StorePublisher_DefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewStorePublisher(store)

	require.NoError(t, pub.Emit(ctx, Event{Subject: "jane@example.com", Action: ActionReportGenerated}))

	events, err := store.ListBySubject(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func Test_InMemoryStore_FiltersBySubject(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Append(ctx, Event{Subject: "a@example.com", Action: ActionReportGenerated}))
	require.NoError(t, store.Append(ctx, Event{Subject: "b@example.com", Action: ActionAdminStatusChanged}))
	require.NoError(t, store.Append(ctx, Event{Subject: "a@example.com", Action: ActionVerifyStatusChanged}))

	events, err := store.ListBySubject(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionReportGenerated, events[0].Action)
	assert.Equal(t, ActionVerifyStatusChanged, events[1].Action)

	events, err = store.ListBySubject(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, events)
}
