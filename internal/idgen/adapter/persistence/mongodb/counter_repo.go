package mongodb

import (
	"context"
	"errors"

	"aura-backend/internal/idgen/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository stores bucket counters in the meta collection.
type CounterRepository struct {
	counters *mongo.Collection
}

// NewCounterRepository creates a counter repository on db.
func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{counters: db.Collection(model.CounterCollection)}
}

// maxUpsertRetries bounds retries when racing upserts create the same bucket.
const maxUpsertRetries = 5

// Increment performs a conditional upsert: the filter only matches while the
// counter is below ceiling. At the ceiling the filter misses, the upsert tries
// to insert a second document with the same _id and fails with a duplicate key
// error, leaving the stored counter untouched. Two callers creating a new
// bucket at the same instant also collide on _id; the loser re-reads the
// counter and retries.
func (r *CounterRepository) Increment(ctx context.Context, bucketKey string, ceiling uint64) (uint64, error) {
	for attempt := 0; ; attempt++ {
		n, err := r.increment(ctx, bucketKey, ceiling)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			return n, err
		}

		current, cerr := r.Current(ctx, bucketKey)
		if cerr != nil {
			return 0, cerr
		}
		if current >= ceiling {
			return 0, apperrors.ErrAllocationExhausted
		}
		if attempt >= maxUpsertRetries {
			return 0, apperrors.NewStorageUnavailableError("counter upsert kept colliding", err)
		}
	}
}

func (r *CounterRepository) increment(ctx context.Context, bucketKey string, ceiling uint64) (uint64, error) {
	filter := bson.M{
		"_id":        bucketKey,
		"lastNumber": bson.M{"$lt": int64(ceiling)},
	}
	update := bson.M{"$inc": bson.M{"lastNumber": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		LastNumber int64 `bson:"lastNumber"`
	}
	err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, err
		}
		return 0, database.MapError(err, "Counter", "failed to increment counter")
	}
	if counter.LastNumber <= 0 {
		return 0, apperrors.NewInternalError("counter returned non-positive value").WithDetail("bucket", bucketKey)
	}
	return uint64(counter.LastNumber), nil
}

// Current returns the stored counter value or 0.
func (r *CounterRepository) Current(ctx context.Context, bucketKey string) (uint64, error) {
	var counter struct {
		LastNumber int64 `bson:"lastNumber"`
	}
	err := r.counters.FindOne(ctx, bson.M{"_id": bucketKey}).Decode(&counter)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, database.MapError(err, "Counter", "failed to read counter")
	}
	return uint64(counter.LastNumber), nil
}
