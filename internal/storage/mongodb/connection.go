package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ternarybob/secretary/internal/common"
)

// MongoDB manages the MongoDB client and the configured database
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	logger arbor.ILogger
	config *common.MongoDBConfig
}

// NewMongoDB connects to the configured server and verifies it is reachable
func NewMongoDB(ctx context.Context, logger arbor.ILogger, config *common.MongoDBConfig) (*MongoDB, error) {
	timeout, err := common.ParseDuration(config.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid connect timeout %q: %w", config.ConnectTimeout, err)
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	logger.Debug().
		Str("database", config.Database).
		Msg("Opening MongoDB connection")

	opts := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to reach mongodb: %w", err)
	}

	logger.Info().
		Str("database", config.Database).
		Msg("MongoDB connection established")

	return &MongoDB{
		client: client,
		db:     client.Database(config.Database),
		logger: logger,
		config: config,
	}, nil
}

// Close disconnects the client
func (m *MongoDB) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
