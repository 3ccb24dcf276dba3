package models

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSONKeepsOrder(t *testing.T) {
	r := NewRecord(
		F("zeta", Int(1)),
		F("alpha", String("Rice & Noodle")),
		F("mid", Sequence(Bool(true), Null(), Float(1.5))),
	)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(r))

	assert.Equal(t, `{"zeta":1,"alpha":"Rice & Noodle","mid":[true,null,1.5]}`+"\n", buf.String())
}

func TestRecord_SetReplacesInPlace(t *testing.T) {
	r := NewRecord(F("a", Int(1)), F("b", Int(2)))
	r.Set("a", String("x"))
	r.Set("c", Int(3))

	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v.AsString())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestParseIdentifier(t *testing.T) {
	v, err := ParseIdentifier("65f1a2b3c4d5e6f708192a3b")
	require.NoError(t, err)
	assert.Equal(t, KindIdentifier, v.Kind())
	assert.Equal(t, "65f1a2b3c4d5e6f708192a3b", v.Hex())

	_, err = ParseIdentifier("xyz")
	assert.Error(t, err)
}

func TestCompareValues(t *testing.T) {
	early := Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := Timestamp(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, -1, CompareValues(early, late))
	assert.Equal(t, 1, CompareValues(late, early))
	assert.Equal(t, 0, CompareValues(Int(2), Float(2)))
	assert.Equal(t, -1, CompareValues(Null(), String("a")))
	assert.Equal(t, -1, CompareValues(Int(100), String("1")))
	assert.Equal(t, -1, CompareValues(String("2024-01-01 10:00"), String("2024-06-01 09:00")))
}

func TestEntry_ToRecord(t *testing.T) {
	note := Entry{Description: "buy milk", Type: EntryTypeNote}
	assert.Equal(t, []string{"description", "type"}, note.ToRecord().Keys())

	task := Entry{Description: "meeting", Type: EntryTypeTask, Time: "2024-06-01 17:00"}
	r := task.ToRecord()
	assert.Equal(t, []string{"description", "type", "time"}, r.Keys())
	v, _ := r.Get("time")
	assert.Equal(t, "2024-06-01 17:00", v.AsString())
}
