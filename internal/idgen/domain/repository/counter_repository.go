package repository

import (
	"context"
)

// CounterRepository persists per-bucket sequence counters.
type CounterRepository interface {
	// Increment atomically adds one to the counter for bucketKey, creating it at
	// zero first if absent, and returns the new value. It must not write when the
	// counter already holds ceiling or more; in that case it returns
	// errors.ErrAllocationExhausted.
	Increment(ctx context.Context, bucketKey string, ceiling uint64) (uint64, error)

	// Current returns the stored value, or 0 for an absent bucket.
	Current(ctx context.Context, bucketKey string) (uint64, error)
}
