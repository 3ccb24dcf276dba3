package storage

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/storage/badger"
	"github.com/ternarybob/secretary/internal/storage/mongodb"
)

// NewDocumentStorage opens the record store selected by config.Storage.Type
func NewDocumentStorage(ctx context.Context, logger arbor.ILogger, config *common.Config) (interfaces.DocumentStorage, error) {
	switch config.Storage.Type {
	case "mongodb", "":
		conn, err := mongodb.NewMongoDB(ctx, logger, &config.Storage.MongoDB)
		if err != nil {
			return nil, err
		}
		return mongodb.NewDocumentStorage(conn, logger), nil
	case "badger":
		conn, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
		if err != nil {
			return nil, err
		}
		return badger.NewDocumentStorage(conn, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected 'mongodb' or 'badger')", config.Storage.Type)
	}
}
