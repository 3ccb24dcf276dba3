package bsonconv

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ternarybob/secretary/internal/models"
)

// IDField is the primary key field of every stored record
const IDField = "_id"

// EnsureID returns the record with an _id field first, assigning a fresh
// object identifier when the record has none, plus the identifier as text.
func EnsureID(record models.Record) (models.Record, string) {
	if id, ok := record.Get(IDField); ok && !id.IsNull() {
		return record, IDText(id)
	}

	id := models.Identifier(primitive.NewObjectID())
	out := make(models.Record, 0, len(record)+1)
	out = append(out, models.F(IDField, id))
	for _, f := range record {
		if f.Key != IDField {
			out = append(out, f)
		}
	}
	return out, id.Hex()
}

// IDText renders an identifier value as text.
func IDText(id models.Value) string {
	if id.Kind() == models.KindIdentifier {
		return id.Hex()
	}
	return id.String()
}
