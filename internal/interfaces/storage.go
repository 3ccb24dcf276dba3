package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/secretary/internal/models"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("not found")

// FindOptions controls record retrieval. An empty SortField keeps store order.
type FindOptions struct {
	SortField  string
	Descending bool
	Limit      int
}

// DocumentStorage - schema-less record persistence grouped by collection
type DocumentStorage interface {
	Ping(ctx context.Context) error

	// Collection operations
	ListCollections(ctx context.Context) ([]string, error)
	CollectionExists(ctx context.Context, collection string) (bool, error)
	Count(ctx context.Context, collection string) (int64, error)

	// Record operations
	FindOne(ctx context.Context, collection string) (models.Record, error)
	Find(ctx context.Context, collection string, opts FindOptions) ([]models.Record, error)
	// Insert stores the record and returns its identifier as hex text.
	// A missing _id field is assigned.
	Insert(ctx context.Context, collection string, record models.Record) (string, error)
	DeleteAll(ctx context.Context, collection string) (int64, error)

	Close() error
}
