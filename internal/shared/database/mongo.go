package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI            string        `env:"MONGODB_URI,required"`
	DatabaseName   string        `env:"DATABASE_NAME" envDefault:"aura"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize    uint64        `env:"MONGO_MIN_POOL_SIZE" envDefault:"2"`
	// Transactions enables multi-document transactions for membership fan-out.
	// Requires a replica set or sharded cluster.
	Transactions bool `env:"MONGO_TRANSACTIONS" envDefault:"true"`
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongodb uri cannot be empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	if log != nil {
		log.WithFields(map[string]interface{}{"database": cfg.DatabaseName}).Info("Connected to MongoDB")
	}
	return client, client.Database(cfg.DatabaseName), nil
}

// EnsureIndexes creates the given indexes on coll. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

// Index is shorthand for an ascending index over keys.
func Index(unique bool, keys ...string) mongo.IndexModel {
	d := bson.D{}
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	m := mongo.IndexModel{Keys: d}
	if unique {
		m.Options = options.Index().SetUnique(true)
	}
	return m
}

// IsTransient reports whether err is worth retrying: network errors, timeouts,
// and server selection failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorLabel("TransientTransactionError") || se.HasErrorLabel("RetryableWriteError")) {
		return true
	}
	var sel topology.ServerSelectionError
	return errors.As(err, &sel)
}

// MapError converts a driver error into the application taxonomy. ErrNoDocuments
// becomes NotFound for resource; transient failures become StorageUnavailable.
func MapError(err error, resource, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NewNotFoundError(resource)
	}
	if IsTransient(err) {
		return apperrors.NewStorageUnavailableError(msg, err)
	}
	return apperrors.NewInternalError(msg).WithCause(err)
}
