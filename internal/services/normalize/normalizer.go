// Package normalize converts stored records into JSON-safe form.
package normalize

import (
	"time"

	"github.com/ternarybob/secretary/internal/models"
)

const (
	// ISOLayout renders timestamps as ISO-8601 in UTC with millisecond precision when present
	ISOLayout = "2006-01-02T15:04:05.999Z07:00"
	// DisplayLayout is the human readable layout used by the data listing
	DisplayLayout = "2006-01-02 15:04:05"
)

// Normalizer rewrites identifiers to hex text and timestamps to text.
// All other values, raw store values included, are kept as they are,
// so normalizing an already normalized record is a no-op.
type Normalizer struct {
	timeLayout string
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithTimeLayout overrides the timestamp layout
func WithTimeLayout(layout string) Option {
	return func(n *Normalizer) {
		n.timeLayout = layout
	}
}

// New creates a Normalizer using ISOLayout unless overridden
func New(opts ...Option) *Normalizer {
	n := &Normalizer{timeLayout: ISOLayout}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Records normalizes each record
func (n *Normalizer) Records(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		out = append(out, n.Record(r))
	}
	return out
}

// Record returns a copy of r with every field normalized. Field names and order are unchanged.
func (n *Normalizer) Record(r models.Record) models.Record {
	out := make(models.Record, 0, len(r))
	for _, f := range r {
		out = append(out, models.F(f.Key, n.Value(f.Value)))
	}
	return out
}

// Value normalizes a single value recursively
func (n *Normalizer) Value(v models.Value) models.Value {
	switch v.Kind() {
	case models.KindIdentifier:
		return models.String(v.Hex())
	case models.KindTimestamp:
		return models.String(v.AsTime().In(time.UTC).Format(n.timeLayout))
	case models.KindRecord:
		return models.Nested(n.Record(v.AsRecord()))
	case models.KindSequence:
		items := v.AsSequence()
		out := make([]models.Value, 0, len(items))
		for _, item := range items {
			out = append(out, n.Value(item))
		}
		return models.Sequence(out...)
	default:
		return v
	}
}
