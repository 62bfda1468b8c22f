package redis

import (
	"context"
	"errors"
	"time"

	"aura-backend/internal/auth/domain/repository"
	apperrors "aura-backend/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix      = "otp:"
	attemptsKeyPrefix = "otp:attempts:"
)

// OTPStore keeps OTP hashes in Redis with a TTL.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates a store over client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save replaces any pending code for phoneNo and resets its failure count.
func (s *OTPStore) Save(ctx context.Context, phoneNo, hash string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKeyPrefix+phoneNo, hash, ttl)
		pipe.Del(ctx, attemptsKeyPrefix+phoneNo)
		return nil
	})
	if err != nil {
		return apperrors.NewStorageUnavailableError("failed to store OTP", err)
	}
	return nil
}

// Get returns the pending hash for phoneNo.
func (s *OTPStore) Get(ctx context.Context, phoneNo string) (string, error) {
	hash, err := s.client.Get(ctx, otpKeyPrefix+phoneNo).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrOTPNotFound
	}
	if err != nil {
		return "", apperrors.NewStorageUnavailableError("failed to read OTP", err)
	}
	return hash, nil
}

// RecordFailure increments the wrong-guess counter for phoneNo.
func (s *OTPStore) RecordFailure(ctx context.Context, phoneNo string, ttl time.Duration) (int64, error) {
	key := attemptsKeyPrefix + phoneNo
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, apperrors.NewStorageUnavailableError("failed to record OTP failure", err)
	}
	return incr.Val(), nil
}

// Delete consumes the pending code.
func (s *OTPStore) Delete(ctx context.Context, phoneNo string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+phoneNo, attemptsKeyPrefix+phoneNo).Err(); err != nil {
		return apperrors.NewStorageUnavailableError("failed to delete OTP", err)
	}
	return nil
}

var _ repository.OTPStore = (*OTPStore)(nil)
