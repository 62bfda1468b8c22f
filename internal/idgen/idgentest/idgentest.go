// Package idgentest runs the sequential allocator over in-memory counters.
package idgentest

import (
	"context"
	"sync"
	"time"

	"aura-backend/internal/idgen/usecase"
	apperrors "aura-backend/internal/shared/errors"
)

// Counters is an in-memory repository.CounterRepository.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
	err    error
}

// NewCounters returns empty counters.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]uint64)}
}

// Fail makes every later increment return err. A nil err clears it.
func (c *Counters) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Counters) Increment(ctx context.Context, bucketKey string, ceiling uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	current := c.values[bucketKey]
	if current >= ceiling {
		return 0, apperrors.ErrAllocationExhausted
	}
	c.values[bucketKey] = current + 1
	return current + 1, nil
}

func (c *Counters) Current(ctx context.Context, bucketKey string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[bucketKey], nil
}

// Allocator returns a real allocator over fresh counters with its clock
// pinned to at, so ids are predictable: the first chat id minted in
// October 2025 is CH2510000000001.
func Allocator(at time.Time) (*usecase.SequentialAllocator, *Counters) {
	counters := NewCounters()
	return usecase.NewAllocatorWithClock(counters, func() time.Time { return at }, nil), counters
}
