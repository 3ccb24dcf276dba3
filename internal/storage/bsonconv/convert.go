// Package bsonconv converts between driver BSON documents and models.Record.
package bsonconv

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ternarybob/secretary/internal/models"
)

// ToRecord converts a decoded document. Values without a dedicated kind
// (binary, regex, decimal128, ...) are carried as raw values.
func ToRecord(doc bson.D) models.Record {
	record := make(models.Record, 0, len(doc))
	for _, e := range doc {
		record = append(record, models.F(e.Key, ToValue(e.Value)))
	}
	return record
}

// ToValue converts a single decoded BSON value.
func ToValue(v interface{}) models.Value {
	switch val := v.(type) {
	case nil:
		return models.Null()
	case primitive.Null, primitive.Undefined:
		return models.Null()
	case string:
		return models.String(val)
	case primitive.Symbol:
		return models.String(string(val))
	case int32:
		return models.Int(int64(val))
	case int64:
		return models.Int(val)
	case int:
		return models.Int(int64(val))
	case float64:
		return models.Float(val)
	case float32:
		return models.Float(float64(val))
	case bool:
		return models.Bool(val)
	case primitive.DateTime:
		return models.Timestamp(val.Time().UTC())
	case time.Time:
		return models.Timestamp(val.UTC())
	case primitive.Timestamp:
		return models.Timestamp(time.Unix(int64(val.T), 0).UTC())
	case primitive.ObjectID:
		return models.Identifier(val)
	case bson.D:
		return models.Nested(ToRecord(val))
	case bson.M:
		return models.Nested(mapToRecord(val))
	case primitive.A:
		return sequence([]interface{}(val))
	case []interface{}:
		return sequence(val)
	default:
		return models.Raw(val)
	}
}

func sequence(items []interface{}) models.Value {
	values := make([]models.Value, 0, len(items))
	for _, item := range items {
		values = append(values, ToValue(item))
	}
	return models.Sequence(values...)
}

func mapToRecord(m bson.M) models.Record {
	record := make(models.Record, 0, len(m))
	for k, v := range m {
		record = append(record, models.F(k, ToValue(v)))
	}
	return record
}

// FromRecord converts a record back to an ordered BSON document.
func FromRecord(record models.Record) (bson.D, error) {
	doc := make(bson.D, 0, len(record))
	for _, f := range record {
		v, err := FromValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		doc = append(doc, bson.E{Key: f.Key, Value: v})
	}
	return doc, nil
}

// FromValue converts a value to its BSON representation.
func FromValue(v models.Value) (interface{}, error) {
	switch v.Kind() {
	case models.KindNull:
		return nil, nil
	case models.KindString:
		return v.AsString(), nil
	case models.KindInt:
		return v.AsInt(), nil
	case models.KindFloat:
		return v.AsFloat(), nil
	case models.KindBool:
		return v.AsBool(), nil
	case models.KindTimestamp:
		return primitive.NewDateTimeFromTime(v.AsTime()), nil
	case models.KindIdentifier:
		return primitive.ObjectID(v.AsIdentifier()), nil
	case models.KindRecord:
		return FromRecord(v.AsRecord())
	case models.KindSequence:
		items := v.AsSequence()
		arr := make(primitive.A, 0, len(items))
		for i, item := range items {
			bv, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, bv)
		}
		return arr, nil
	case models.KindRaw:
		return v.AsRaw(), nil
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}

// Marshal encodes a record as a BSON document.
func Marshal(record models.Record) ([]byte, error) {
	doc, err := FromRecord(record)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

// Unmarshal decodes a BSON document into a record.
func Unmarshal(data []byte) (models.Record, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return ToRecord(doc), nil
}
