package redis

import (
	"context"
	"time"

	"aura-backend/internal/auth/domain/repository"
	apperrors "aura-backend/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:"

// TokenBlacklist stores revoked token ids until their natural expiry.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a blacklist over client.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke marks tokenID as revoked for ttl. Non-positive ttls mean the token
// has already expired, so there is nothing to store.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return apperrors.NewStorageUnavailableError("failed to revoke token", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, apperrors.NewStorageUnavailableError("failed to check token", err)
	}
	return n > 0, nil
}

var _ repository.TokenBlacklist = (*TokenBlacklist)(nil)
