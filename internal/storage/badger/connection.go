package badger

import (
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/secretary/internal/common"
)

// BadgerDB manages the embedded Badger database
type BadgerDB struct {
	db     *badgerdb.DB
	logger arbor.ILogger
	config *common.BadgerConfig
}

// NewBadgerDB opens the database, optionally wiping it first or running in memory
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	var options badgerdb.Options

	if config.InMemory {
		options = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if config.ResetOnStartup {
			if _, err := os.Stat(config.Path); err == nil {
				logger.Debug().Str("path", config.Path).Msg("Deleting existing database (reset_on_startup=true)")
				if err := os.RemoveAll(config.Path); err != nil {
					logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to delete database directory")
				}
			}
		}

		if err := os.MkdirAll(config.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		options = badgerdb.DefaultOptions(config.Path)
	}

	// Badger's own logger is replaced by arbor
	options = options.WithLogger(nil)

	logger.Debug().
		Str("path", config.Path).
		Bool("in_memory", config.InMemory).
		Msg("Opening Badger database")

	db, err := badgerdb.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger database initialized")

	return &BadgerDB{
		db:     db,
		logger: logger,
		config: config,
	}, nil
}

// DB returns the underlying database handle
func (b *BadgerDB) DB() *badgerdb.DB {
	return b.db
}

// Close closes the database connection. Closing twice is a no-op.
func (b *BadgerDB) Close() error {
	if b.db == nil || b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}
