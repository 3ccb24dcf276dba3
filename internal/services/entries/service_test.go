package entries

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
	"github.com/ternarybob/secretary/internal/storage/badger"
)

func newTestService(t *testing.T) (*Service, interfaces.DocumentStorage) {
	t.Helper()
	logger := arbor.NewNoOpLogger()
	db, err := badger.NewBadgerDB(logger, &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	storage := badger.NewDocumentStorage(db, logger)
	t.Cleanup(func() { _ = storage.Close() })

	service := NewService(storage, &common.EntriesConfig{Collection: "data"}, logger)
	service.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) }
	return service, storage
}

func TestSaveNote(t *testing.T) {
	service, storage := newTestService(t)
	ctx := context.Background()

	id, err := service.SaveNote(ctx, "order more rice")
	require.NoError(t, err)
	assert.Len(t, id, 24)

	record, err := storage.FindOne(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "description", "type"}, record.Keys())
	typ, _ := record.Get("type")
	assert.Equal(t, "note", typ.AsString())

	_, err = service.SaveNote(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestSaveTask(t *testing.T) {
	service, storage := newTestService(t)
	ctx := context.Background()

	_, err := service.SaveTask(ctx, &models.Task{Description: "meeting", Time: "2024-06-01 17:00"})
	require.NoError(t, err)

	record, err := storage.FindOne(ctx, "data")
	require.NoError(t, err)
	when, _ := record.Get("time")
	assert.Equal(t, "2024-06-01 17:00", when.AsString())

	// Never persist a free-text time
	_, err = service.SaveTask(ctx, &models.Task{Description: "meeting", Time: "5 pm"})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = service.SaveTask(ctx, &models.Task{Description: "meeting"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	count, err := storage.Count(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSaveTask_RejectsMalformedTime(t *testing.T) {
	service, storage := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		time string
	}{
		{"one-digit hour", "2024-06-01 5:00"},
		{"one-digit day", "2024-06-1 17:00"},
		{"seconds", "2024-06-01 17:00:00"},
		{"no date", "17:00"},
		{"out of range", "2024-13-01 17:00"},
		{"padded", " 2024-06-01 17:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SaveTask(ctx, &models.Task{Description: "meeting", Time: tt.time})
			assert.ErrorIs(t, err, ErrInvalidEntry)
		})
	}

	count, err := storage.Count(ctx, "data")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddEntry(t *testing.T) {
	service, storage := newTestService(t)
	ctx := context.Background()

	id, err := service.AddEntry(ctx, &models.DataEntry{Description: "buy milk", Type: "note", Time: "2024-06-01T10:00:00"})
	require.NoError(t, err)
	assert.Len(t, id, 24)

	record, err := storage.FindOne(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "description", "type", "time", "created_at"}, record.Keys())

	when, _ := record.Get("time")
	assert.Equal(t, models.KindTimestamp, when.Kind())
	assert.True(t, when.AsTime().Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)))

	created, _ := record.Get("created_at")
	assert.True(t, created.AsTime().Equal(time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)))
}

func TestAddEntry_Errors(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.AddEntry(ctx, &models.DataEntry{Type: "note", Time: "2024-06-01T10:00:00"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = service.AddEntry(ctx, &models.DataEntry{Description: "x", Type: "note", Time: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01T10:00:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01T10:00:00.250", time.Date(2024, 6, 1, 10, 0, 0, 250e6, time.UTC)},
		{"2024-06-01T10:00:00Z", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01T17:00:00+07:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01T10:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01 10:00:00", time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseISOTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
	}

	_, err := ParseISOTime("01/06/2024")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestListEntries_NewestFirstForDisplay(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, when := range []string{"2024-06-01T08:00:00", "2024-06-03T08:00:00", "2024-06-02T08:00:00"} {
		_, err := service.AddEntry(ctx, &models.DataEntry{Description: when, Type: "note", Time: when})
		require.NoError(t, err)
	}

	records, err := service.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	var times []string
	for _, r := range records {
		v, _ := r.Get("time")
		assert.Equal(t, models.KindString, v.Kind())
		times = append(times, v.AsString())

		id, _ := r.Get("_id")
		assert.Equal(t, models.KindString, id.Kind())
		assert.Len(t, id.AsString(), 24)
	}
	assert.Equal(t, []string{"2024-06-03 08:00:00", "2024-06-02 08:00:00", "2024-06-01 08:00:00"}, times)
}
