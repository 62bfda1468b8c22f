package repository

import (
	"context"
	"time"

	"aura-backend/internal/activity/domain/model"
)

// ActivityStore keeps a bounded, append-only log per group.
type ActivityStore interface {
	// Append records e and returns its id. The stream is capped near maxLen.
	Append(ctx context.Context, e model.Entry, maxLen int64) (string, error)
	// Since returns up to limit entries after the entry with id since, oldest
	// first. An empty since reads from the start.
	Since(ctx context.Context, groupID, since string, limit int64) ([]model.Entry, error)
	Expire(ctx context.Context, groupID string, ttl time.Duration) error
	// Trim caps every known stream at maxLen and returns how many were cut.
	Trim(ctx context.Context, maxLen int64) (int, error)
}
