package repository

import (
	"context"

	"aura-backend/internal/membership/domain/model"
)

// Store reads and writes per-user membership entries.
type Store interface {
	// RunInTransaction executes fn so that either every write made through the
	// ctx it receives commits or none does. fn may be invoked more than once
	// when the storage layer retries a transient conflict.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// LoadMembers returns the documents of the given users keyed by id. Unknown
	// ids are absent from the result.
	LoadMembers(ctx context.Context, kind model.Kind, userIDs []string) (map[string]*model.Member, error)

	// ApplyPatch performs one targeted write. PatchUpdate fails with a
	// precondition error when the entry no longer exists.
	ApplyPatch(ctx context.Context, patch model.Patch) error
}
