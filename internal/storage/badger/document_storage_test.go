package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
)

func newTestStorage(t *testing.T) interfaces.DocumentStorage {
	t.Helper()
	logger := arbor.NewNoOpLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	storage := NewDocumentStorage(db, logger)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestDocumentStorage_InsertAssignsIdentifier(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	id, err := storage.Insert(ctx, "data", models.NewRecord(
		models.F("description", models.String("buy rice")),
		models.F("type", models.String("note")),
	))
	require.NoError(t, err)
	assert.Len(t, id, 24)

	record, err := storage.FindOne(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "description", "type"}, record.Keys())

	stored, _ := record.Get("_id")
	assert.Equal(t, models.KindIdentifier, stored.Kind())
	assert.Equal(t, id, stored.Hex())
}

func TestDocumentStorage_CollectionsAndCounts(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	exists, err := storage.CollectionExists(ctx, "menus")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = storage.FindOne(ctx, "menus")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	for _, name := range []string{"pad thai", "green curry"} {
		_, err := storage.Insert(ctx, "menus", models.NewRecord(models.F("name", models.String(name))))
		require.NoError(t, err)
	}
	_, err = storage.Insert(ctx, "about", models.NewRecord(models.F("th", models.String("ร้าน"))))
	require.NoError(t, err)

	names, err := storage.ListCollections(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"menus", "about"}, names)

	count, err := storage.Count(ctx, "menus")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := storage.DeleteAll(ctx, "menus")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err = storage.Count(ctx, "menus")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Clearing keeps the collection, like the document server does
	exists, err = storage.CollectionExists(ctx, "menus")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentStorage_FindSortedDescending(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 5} {
		_, err := storage.Insert(ctx, "data", models.NewRecord(
			models.F("description", models.String("entry")),
			models.F("time", models.Timestamp(base.Add(time.Duration(offset)*time.Hour))),
		))
		require.NoError(t, err)
	}
	// No time field sorts last when descending
	_, err := storage.Insert(ctx, "data", models.NewRecord(models.F("description", models.String("untimed"))))
	require.NoError(t, err)

	records, err := storage.Find(ctx, "data", interfaces.FindOptions{SortField: "time", Descending: true})
	require.NoError(t, err)
	require.Len(t, records, 4)

	var hours []int
	for _, r := range records[:3] {
		v, ok := r.Get("time")
		require.True(t, ok)
		hours = append(hours, v.AsTime().Hour())
	}
	assert.Equal(t, []int{13, 10, 8}, hours)

	_, hasTime := records[3].Get("time")
	assert.False(t, hasTime)

	limited, err := storage.Find(ctx, "data", interfaces.FindOptions{SortField: "time", Descending: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDocumentStorage_DuplicateIdentifier(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	id, err := models.ParseIdentifier("65f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)

	record := models.NewRecord(models.F("_id", id), models.F("name", models.String("first")))
	_, err = storage.Insert(ctx, "data", record)
	require.NoError(t, err)

	_, err = storage.Insert(ctx, "data", record)
	assert.Error(t, err)
}
