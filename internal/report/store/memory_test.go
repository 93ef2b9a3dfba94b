package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spearow/internal/report/models"
)

func namedDoc(name string) *models.Record {
	doc := models.NewRecord()
	doc.Set("Name", name)
	return doc
}

func Test_MemoryStore_GetByKeyMiss(t *testing.T) {
	s := NewInMemoryStore()

	entry, err := s.GetByKey(context.Background(), CollectionBreaches, "Adobe")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func Test_MemoryStore_InsertAndLookupByKeyField(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, namedDoc("Adobe")))

	entry, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.FetchedAt.IsZero())

	_, hasID := entry.Doc.Get(models.StorageIDField)
	assert.True(t, hasID, "stored documents carry a storage identifier")
}

func Test_MemoryStore_InsertDoesNotMutateCallerDoc(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	doc := namedDoc("Adobe")
	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, doc))

	_, hasID := doc.Get(models.StorageIDField)
	assert.False(t, hasID)
}

func Test_MemoryStore_InsertManyPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.InsertMany(ctx, CollectionBreaches, []*models.Record{
		namedDoc("Adobe"), namedDoc("LinkedIn"), namedDoc("Canva"),
	}))

	docs, err := s.ListAll(ctx, CollectionBreaches)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	first, _ := docs[0].Get("Name")
	last, _ := docs[2].Get("Name")
	assert.Equal(t, "Adobe", first)
	assert.Equal(t, "Canva", last)
}

func Test_MemoryStore_OverwriteFieldUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	value := models.NewRecord()
	value.Set("Report", "first")
	require.NoError(t, s.OverwriteField(ctx, CollectionUsers, "jane@example.com", FieldBreaches, value))

	entry, err := s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, entry)

	email, _ := entry.Doc.Get("email")
	assert.Equal(t, "jane@example.com", email)

	// Last write wins.
	second := models.NewRecord()
	second.Set("Report", "second")
	require.NoError(t, s.OverwriteField(ctx, CollectionUsers, "jane@example.com", FieldBreaches, second))

	entry, err = s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	stored, _ := entry.Doc.Get(FieldBreaches)
	report, _ := stored.(*models.Record).Get("Report")
	assert.Equal(t, "second", report)

	docs, err := s.ListAll(ctx, CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "overwrite never appends")
}

func Test_MemoryStore_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, namedDoc("Adobe")))

	entry, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)
	entry.Doc.Set("Name", "Tampered")

	fresh, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)
	name, _ := fresh.Doc.Get("Name")
	assert.Equal(t, "Adobe", name)
}

func Test_MemoryStore_NestedRecordListsDoNotAliasCache(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	// User-report write-backs store a record list under the breaches field.
	stored := []*models.Record{namedDoc("Adobe")}
	require.NoError(t, s.OverwriteField(ctx, CollectionUsers, "jane@example.com", FieldBreaches, stored))

	entry, err := s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	field, ok := entry.Doc.Get(FieldBreaches)
	require.True(t, ok)
	list, ok := field.([]*models.Record)
	require.True(t, ok)
	list[0].Set("Name", "Tampered")

	// Mutating the caller's original must not reach the cache either.
	stored[0].Set("Name", "Tampered")

	fresh, err := s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	field, _ = fresh.Doc.Get(FieldBreaches)
	freshList, ok := field.([]*models.Record)
	require.True(t, ok)
	name, _ := freshList[0].Get("Name")
	assert.Equal(t, "Adobe", name)
}

func Test_MemoryStore_ClockControlsFetchedAt(t *testing.T) {
	ctx := context.Background()
	pinned := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s := NewInMemoryStore().WithClock(func() time.Time { return pinned })

	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, namedDoc("Adobe")))

	entry, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)
	assert.Equal(t, pinned, entry.FetchedAt)
}

func Test_PolicyFromConfig(t *testing.T) {
	policy, err := PolicyFromConfig("none", 0)
	require.NoError(t, err)
	assert.False(t, policy.Stale(time.Time{}, time.Now()))

	policy, err = PolicyFromConfig("ttl", time.Hour)
	require.NoError(t, err)
	now := time.Now()
	assert.False(t, policy.Stale(now.Add(-30*time.Minute), now))
	assert.True(t, policy.Stale(now.Add(-2*time.Hour), now))
	assert.True(t, policy.Stale(time.Time{}, now), "zero fetch time is always stale")

	_, err = PolicyFromConfig("ttl", 0)
	require.Error(t, err)

	_, err = PolicyFromConfig("bogus", 0)
	require.Error(t, err)
}
