package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when Config.Database is empty.
const DefaultDatabase = "carehub"

// Config holds MongoDB connection configuration.
type Config struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// DefaultConfig returns sensible defaults for MongoDB configuration.
func DefaultConfig() Config {
	return Config{
		Database:       DefaultDatabase,
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
	}
}

// Client wraps a *mongo.Client bound to one database.
type Client struct {
	client   *mongo.Client
	database string
}

// Connect dials and pings. Returns nil, nil if the URL is empty so callers can
// treat MongoDB as optional.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}

	opts := options.Client().ApplyURI(cfg.URL)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{client: client, database: cfg.Database}, nil
}

// Wrap binds an existing client, e.g. one provided by mtest.
func Wrap(client *mongo.Client, database string) *Client {
	if database == "" {
		database = DefaultDatabase
	}
	return &Client{client: client, database: database}
}

// Database returns the configured database handle for stores.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.database)
}

// Health checks if the primary is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mongo not configured")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
