package models

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTimestamp
	KindIdentifier
	KindRecord
	KindSequence
	KindRaw
)

var kindNames = map[Kind]string{
	KindNull:       "null",
	KindString:     "string",
	KindInt:        "int",
	KindFloat:      "float",
	KindBool:       "bool",
	KindTimestamp:  "timestamp",
	KindIdentifier: "identifier",
	KindRecord:     "record",
	KindSequence:   "sequence",
	KindRaw:        "raw",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamically typed field value of a stored record.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	flag bool
	ts   time.Time
	id   [12]byte
	rec  Record
	seq  []Value
	raw  interface{}
}

func Null() Value { return Value{kind: KindNull} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(i int64) Value { return Value{kind: KindInt, num: i} }
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }
func Identifier(id [12]byte) Value { return Value{kind: KindIdentifier, id: id} }
func Nested(r Record) Value { return Value{kind: KindRecord, rec: r} }
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

// Raw wraps a store-specific value that has no dedicated variant.
func Raw(v interface{}) Value { return Value{kind: KindRaw, raw: v} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) AsString() string { return v.str }
func (v Value) AsInt() int64 { return v.num }
func (v Value) AsFloat() float64 { return v.flt }
func (v Value) AsBool() bool { return v.flag }
func (v Value) AsTime() time.Time { return v.ts }
func (v Value) AsIdentifier() [12]byte { return v.id }
func (v Value) AsRecord() Record { return v.rec }
func (v Value) AsSequence() []Value { return v.seq }
func (v Value) AsRaw() interface{} { return v.raw }

// Hex renders an identifier as 24 lowercase hexadecimal characters.
func (v Value) Hex() string {
	return hex.EncodeToString(v.id[:])
}

// ParseIdentifier decodes a 24 character hex string into an identifier value.
func ParseIdentifier(s string) (Value, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 12 {
		return Value{}, fmt.Errorf("invalid identifier %q", s)
	}
	var id [12]byte
	copy(id[:], b)
	return Identifier(id), nil
}

// MarshalJSON renders the value as plain JSON. Timestamps use RFC 3339 in UTC
// and identifiers their hex form, so a Value always encodes.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return marshalString(v.str)
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10)), nil
	case KindFloat:
		if math.IsNaN(v.flt) || math.IsInf(v.flt, 0) {
			return json.Marshal(strconv.FormatFloat(v.flt, 'g', -1, 64))
		}
		return json.Marshal(v.flt)
	case KindBool:
		return json.Marshal(v.flag)
	case KindTimestamp:
		return marshalString(v.ts.UTC().Format(time.RFC3339Nano))
	case KindIdentifier:
		return marshalString(v.Hex())
	case KindRecord:
		return v.rec.MarshalJSON()
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindRaw:
		if b, err := json.Marshal(v.raw); err == nil {
			return b, nil
		}
		return json.Marshal(fmt.Sprintf("%v", v.raw))
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// marshalString encodes text without HTML escaping so prompts and
// dashboards show "&" and "<" as written.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// String returns a human readable rendering used by the dashboard table.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindTimestamp:
		return v.ts.UTC().Format(time.RFC3339)
	case KindIdentifier:
		return v.Hex()
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("%v", v.raw)
		}
		return string(b)
	}
}
