package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
	"github.com/ternarybob/secretary/internal/storage/bsonconv"
)

// Key layout:
//
//	col\x00<collection>            collection marker
//	rec\x00<collection>\x00<id>    BSON encoded record
const (
	collectionPrefix = "col\x00"
	recordPrefix     = "rec\x00"
	separator        = "\x00"
)

// DocumentStorage implements interfaces.DocumentStorage on top of Badger
type DocumentStorage struct {
	conn   *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(conn *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		conn:   conn,
		logger: logger,
	}
}

func collectionKey(collection string) []byte {
	return []byte(collectionPrefix + collection)
}

func recordsPrefix(collection string) []byte {
	return []byte(recordPrefix + collection + separator)
}

func recordKey(collection, id string) []byte {
	return []byte(recordPrefix + collection + separator + id)
}

func (s *DocumentStorage) Ping(ctx context.Context) error {
	if s.conn.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

func (s *DocumentStorage) ListCollections(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.conn.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(collectionPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, string(it.Item().Key()[len(collectionPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

func (s *DocumentStorage) CollectionExists(ctx context.Context, collection string) (bool, error) {
	exists := false
	err := s.conn.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(collectionKey(collection))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up collection %s: %w", collection, err)
	}
	return exists, nil
}

func (s *DocumentStorage) Count(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := s.conn.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = recordsPrefix(collection)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// scan decodes records of a collection in key order, stopping after limit when positive
func (s *DocumentStorage) scan(collection string, limit int) ([]models.Record, error) {
	records := []models.Record{}
	err := s.conn.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = recordsPrefix(collection)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			record, err := bsonconv.Unmarshal(data)
			if err != nil {
				return fmt.Errorf("corrupt record %q: %w", it.Item().Key(), err)
			}
			records = append(records, record)
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	return records, err
}

func (s *DocumentStorage) FindOne(ctx context.Context, collection string) (models.Record, error) {
	records, err := s.scan(collection, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read from %s: %w", collection, err)
	}
	if len(records) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return records[0], nil
}

func (s *DocumentStorage) Find(ctx context.Context, collection string, opts interfaces.FindOptions) ([]models.Record, error) {
	limit := opts.Limit
	if opts.SortField != "" {
		limit = 0
	}

	records, err := s.scan(collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	if opts.SortField != "" {
		sortRecords(records, opts.SortField, opts.Descending)
		if opts.Limit > 0 && len(records) > opts.Limit {
			records = records[:opts.Limit]
		}
	}
	return records, nil
}

// sortRecords orders records by one field. Records without the field sort as null.
func sortRecords(records []models.Record, field string, descending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, _ := records[i].Get(field)
		b, _ := records[j].Get(field)
		c := models.CompareValues(a, b)
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func (s *DocumentStorage) Insert(ctx context.Context, collection string, record models.Record) (string, error) {
	record, id := bsonconv.EnsureID(record)

	data, err := bsonconv.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	err = s.conn.db.Update(func(txn *badgerdb.Txn) error {
		key := recordKey(collection, id)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("duplicate _id %s", id)
		} else if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(collectionKey(collection), nil); err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	s.logger.Debug().
		Str("collection", collection).
		Str("id", id).
		Msg("Record inserted")

	return id, nil
}

// DeleteAll removes every record of the collection. The collection itself remains.
func (s *DocumentStorage) DeleteAll(ctx context.Context, collection string) (int64, error) {
	var keys [][]byte
	err := s.conn.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = recordsPrefix(collection)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", collection, err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	wb := s.conn.db.NewWriteBatch()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			return 0, fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", collection, err)
	}

	return int64(len(keys)), nil
}

func (s *DocumentStorage) Close() error {
	return s.conn.Close()
}
