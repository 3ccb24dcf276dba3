package bsonconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ternarybob/secretary/internal/models"
)

func TestToRecord_PreservesOrderAndKinds(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Baan Suan"},
		{Key: "founded_year", Value: int32(2525)},
		{Key: "rating", Value: 4.5},
		{Key: "open", Value: true},
		{Key: "time", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "tags", Value: primitive.A{"thai", int64(2)}},
		{Key: "history", Value: bson.D{{Key: "mission", Value: "serve"}}},
		{Key: "blob", Value: primitive.Binary{Data: []byte{1, 2}}},
		{Key: "missing", Value: nil},
	}

	record := ToRecord(doc)

	assert.Equal(t, []string{"_id", "name", "founded_year", "rating", "open", "time", "tags", "history", "blob", "missing"}, record.Keys())

	v, _ := record.Get("_id")
	assert.Equal(t, models.KindIdentifier, v.Kind())
	assert.Equal(t, id.Hex(), v.Hex())

	v, _ = record.Get("founded_year")
	assert.Equal(t, models.KindInt, v.Kind())
	assert.Equal(t, int64(2525), v.AsInt())

	v, _ = record.Get("time")
	assert.Equal(t, models.KindTimestamp, v.Kind())
	assert.True(t, at.Equal(v.AsTime()))

	v, _ = record.Get("tags")
	require.Equal(t, models.KindSequence, v.Kind())
	assert.Len(t, v.AsSequence(), 2)

	v, _ = record.Get("history")
	require.Equal(t, models.KindRecord, v.Kind())
	mission, ok := v.AsRecord().Get("mission")
	require.True(t, ok)
	assert.Equal(t, "serve", mission.AsString())

	v, _ = record.Get("blob")
	assert.Equal(t, models.KindRaw, v.Kind())

	v, _ = record.Get("missing")
	assert.True(t, v.IsNull())
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	record := models.NewRecord(
		models.F("_id", models.Identifier(id)),
		models.F("description", models.String("call mom")),
		models.F("time", models.Timestamp(at)),
		models.F("profile", models.Nested(models.NewRecord(
			models.F("th", models.String("ร้าน")),
			models.F("en", models.String("shop")),
		))),
	)

	data, err := Marshal(record)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, record.Keys(), decoded.Keys())

	v, _ := decoded.Get("_id")
	assert.Equal(t, id.Hex(), v.Hex())

	v, _ = decoded.Get("time")
	assert.True(t, at.Equal(v.AsTime()))

	v, _ = decoded.Get("profile")
	require.Equal(t, models.KindRecord, v.Kind())
	assert.Equal(t, []string{"th", "en"}, v.AsRecord().Keys())
}
