//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spearow/internal/report/models"
	"spearow/pkg/testutil/containers"
)

func setupRedisStore(t *testing.T) (*RedisStore, context.Context) {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))
	return NewRedisStore(rc.Client), ctx
}

func Test_RedisStore_InsertAndGetByKey(t *testing.T) {
	s, ctx := setupRedisStore(t)

	doc := models.NewRecord()
	doc.Set("Name", "Adobe")
	doc.Set("Domain", "adobe.com")
	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, doc))

	entry, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.False(t, entry.FetchedAt.IsZero())

	name, _ := entry.Doc.Get("Name")
	assert.Equal(t, "Adobe", name)
	_, hasID := entry.Doc.Get(models.StorageIDField)
	assert.True(t, hasID)
}

func Test_RedisStore_MissReturnsNil(t *testing.T) {
	s, ctx := setupRedisStore(t)

	entry, err := s.GetByKey(ctx, CollectionBreaches, "NoSuchBreach")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func Test_RedisStore_ListAllPreservesInsertionOrder(t *testing.T) {
	s, ctx := setupRedisStore(t)

	var docs []*models.Record
	for _, name := range []string{"Adobe", "LinkedIn", "Canva"} {
		doc := models.NewRecord()
		doc.Set("Name", name)
		docs = append(docs, doc)
	}
	require.NoError(t, s.InsertMany(ctx, CollectionBreaches, docs))

	listed, err := s.ListAll(ctx, CollectionBreaches)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	first, _ := listed[0].Get("Name")
	last, _ := listed[2].Get("Name")
	assert.Equal(t, "Adobe", first)
	assert.Equal(t, "Canva", last)
}

func Test_RedisStore_OverwriteFieldUpsertsAndOverwrites(t *testing.T) {
	s, ctx := setupRedisStore(t)

	report := models.NewRecord()
	report.Set("Report", "first")
	require.NoError(t, s.OverwriteField(ctx, CollectionUsers, "jane@example.com", FieldBreaches, report))

	entry, err := s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, entry)
	email, _ := entry.Doc.Get("email")
	assert.Equal(t, "jane@example.com", email)

	second := models.NewRecord()
	second.Set("Report", "second")
	require.NoError(t, s.OverwriteField(ctx, CollectionUsers, "jane@example.com", FieldBreaches, second))

	entry, err = s.GetByKey(ctx, CollectionUsers, "jane@example.com")
	require.NoError(t, err)
	stored, _ := entry.Doc.Get(FieldBreaches)
	value, _ := stored.(*models.Record).Get("Report")
	assert.Equal(t, "second", value)

	docs, err := s.ListAll(ctx, CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func Test_RedisStore_NumbersSurviveRoundTrip(t *testing.T) {
	s, ctx := setupRedisStore(t)

	doc := models.NewRecord()
	require.NoError(t, doc.UnmarshalJSON([]byte(`{"Name":"Adobe","PwnCount":152445165}`)))
	require.NoError(t, s.InsertOne(ctx, CollectionBreaches, doc))

	entry, err := s.GetByKey(ctx, CollectionBreaches, "Adobe")
	require.NoError(t, err)

	out, err := entry.Doc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"PwnCount":152445165`)
}
