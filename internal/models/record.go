package models

import (
	"bytes"
)

// Field is a single named value of a Record
type Field struct {
	Key   string
	Value Value
}

// Record is a schema-less document. Field order is preserved as stored.
type Record []Field

// NewRecord builds a record from fields in order. Later duplicates replace earlier ones.
func NewRecord(fields ...Field) Record {
	r := make(Record, 0, len(fields))
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// F is shorthand for constructing a Field.
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value under key, or appends the field when absent.
func (r *Record) Set(key string, value Value) {
	for i := range *r {
		if (*r)[i].Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Key: key, Value: value})
}

// Keys returns the top-level field names in stored order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, f := range r {
		keys = append(keys, f.Key)
	}
	return keys
}

// MarshalJSON encodes the record as a JSON object keeping field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
