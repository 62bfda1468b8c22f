package usecase

import (
	"context"
	"time"

	"aura-backend/internal/idgen/domain/model"
	"aura-backend/internal/idgen/domain/repository"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/metrics"
)

// Allocator mints identifiers. Handlers and other use cases depend on this
// interface rather than on the concrete type.
type Allocator interface {
	Allocate(ctx context.Context, req model.Request) (string, error)
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// SequentialAllocator hands out {prefix}{YY}{M}{seq} identifiers backed by a
// per-month counter.
type SequentialAllocator struct {
	counters repository.CounterRepository
	now      Clock
	log      logger.Logger
}

// NewAllocator creates an allocator using the wall clock.
func NewAllocator(counters repository.CounterRepository, log logger.Logger) *SequentialAllocator {
	return NewAllocatorWithClock(counters, time.Now, log)
}

// NewAllocatorWithClock creates an allocator reading time from now.
func NewAllocatorWithClock(counters repository.CounterRepository, now Clock, log logger.Logger) *SequentialAllocator {
	if log == nil {
		log = logger.Nop()
	}
	return &SequentialAllocator{
		counters: counters,
		now:      now,
		log:      log.WithComponent("idgen"),
	}
}

// Allocate increments the bucket for req.Collection in the current month and
// formats the new value. The returned id is never handed out twice.
func (a *SequentialAllocator) Allocate(ctx context.Context, req model.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", apperrors.NewValidationError(err.Error()).WithComponent("idgen")
	}

	at := a.now().UTC()
	bucket := model.BucketKey(req.Collection, at)

	seq, err := a.counters.Increment(ctx, bucket, model.MaxSequence)
	if err != nil {
		if apperrors.IsAllocationExhausted(err) {
			metrics.IDAllocationFailures.WithLabelValues("exhausted").Inc()
			a.log.WithContext(ctx).WithFields(map[string]interface{}{"bucket": bucket}).
				Error("counter reached max limit")
			return "", apperrors.NewAllocationExhaustedError(bucket).WithComponent("idgen")
		}
		metrics.IDAllocationFailures.WithLabelValues("storage").Inc()
		a.log.WithContext(ctx).WithFields(map[string]interface{}{"bucket": bucket}).
			Errorf("failed to increment counter: %v", err)
		return "", apperrors.WrapError(err, "failed to allocate id").WithComponent("idgen")
	}

	id := model.Format(req.Prefix, at, seq, req.EffectiveWidth())
	metrics.IDsAllocated.WithLabelValues(req.Collection).Inc()
	a.log.WithContext(ctx).WithFields(map[string]interface{}{"bucket": bucket, "id": id}).Debug("allocated id")
	return id, nil
}
