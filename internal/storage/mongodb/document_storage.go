package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/storage/bsonconv"
)

// DocumentStorage implements interfaces.DocumentStorage for MongoDB
type DocumentStorage struct {
	conn   *MongoDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(conn *MongoDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		conn:   conn,
		logger: logger,
	}
}

func (s *DocumentStorage) Ping(ctx context.Context) error {
	return s.conn.client.Ping(ctx, readpref.Primary())
}

func (s *DocumentStorage) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.conn.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (s *DocumentStorage) CollectionExists(ctx context.Context, collection string) (bool, error) {
	names, err := s.conn.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: collection}})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

func (s *DocumentStorage) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.conn.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

func (s *DocumentStorage) FindOne(ctx context.Context, collection string) (models.Record, error) {
	var doc bson.D
	err := s.conn.db.Collection(collection).FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read from %s: %w", collection, err)
	}
	return bsonconv.ToRecord(doc), nil
}

func (s *DocumentStorage) Find(ctx context.Context, collection string, opts interfaces.FindOptions) ([]models.Record, error) {
	findOpts := options.Find()
	if opts.SortField != "" {
		direction := 1
		if opts.Descending {
			direction = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: direction}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.conn.db.Collection(collection).Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}

	records := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, bsonconv.ToRecord(doc))
	}
	return records, nil
}

func (s *DocumentStorage) Insert(ctx context.Context, collection string, record models.Record) (string, error) {
	record, id := bsonconv.EnsureID(record)

	doc, err := bsonconv.FromRecord(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	if _, err := s.conn.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	s.logger.Debug().
		Str("collection", collection).
		Str("id", id).
		Msg("Record inserted")

	return id, nil
}

func (s *DocumentStorage) DeleteAll(ctx context.Context, collection string) (int64, error) {
	result, err := s.conn.db.Collection(collection).DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return result.DeletedCount, nil
}

func (s *DocumentStorage) Close() error {
	return s.conn.Close()
}
