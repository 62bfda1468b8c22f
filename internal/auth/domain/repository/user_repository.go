package repository

import (
	"context"
	"time"

	"aura-backend/internal/auth/domain/model"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByPhone(ctx context.Context, phoneNo string) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	SetToken(ctx context.Context, id, token string) error
	ClearToken(ctx context.Context, id, token string) error
	UpdateProfile(ctx context.Context, id string, profile model.Profile, at time.Time) error
}

// OTPStore keeps one hashed one-time password per phone number.
type OTPStore interface {
	Save(ctx context.Context, phoneNo, hash string, ttl time.Duration) error
	// Get returns the stored hash, or ErrOTPNotFound once it has expired.
	Get(ctx context.Context, phoneNo string) (string, error)
	// RecordFailure counts a wrong guess and returns the total so far.
	RecordFailure(ctx context.Context, phoneNo string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, phoneNo string) error
}

// TokenBlacklist remembers revoked token ids until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
