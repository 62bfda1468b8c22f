package mongodb

import (
	"context"
	"testing"
	"time"

	"aura-backend/internal/auth/domain/model"
	"aura-backend/internal/auth/domain/repository"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/database/mongotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoUserRepository(t *testing.T) {
	db := mongotest.Start(t)
	ctx := context.Background()

	repo, err := NewMongoUserRepository(ctx, db)
	require.NoError(t, err)

	user := &model.User{
		ID:          "US253000000001",
		PhoneNo:     "123456789",
		CountryCode: "+60",
		Name:        "Aina",
		Sex:         "female",
		CreateAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("duplicate phone", func(t *testing.T) {
		dup := *user
		dup.ID = "US253000000002"
		assert.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrDuplicatePhone)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := repo.GetByPhone(ctx, "123456789")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Nil(t, got.Avatar)

		_, err = repo.GetByID(ctx, "US253999999999")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("token lifecycle", func(t *testing.T) {
		require.NoError(t, repo.SetToken(ctx, user.ID, "tok-1"))
		got, err := repo.GetByToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		// A stale token does not clear a newer session.
		require.NoError(t, repo.SetToken(ctx, user.ID, "tok-2"))
		require.NoError(t, repo.ClearToken(ctx, user.ID, "tok-1"))
		_, err = repo.GetByToken(ctx, "tok-2")
		require.NoError(t, err)

		require.NoError(t, repo.ClearToken(ctx, user.ID, "tok-2"))
		_, err = repo.GetByToken(ctx, "tok-2")
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repo.GetByToken(ctx, "")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("update profile", func(t *testing.T) {
		avatar := "https://cdn.example/a.png"
		at := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, repo.UpdateProfile(ctx, user.ID, model.Profile{Name: "Aina R", Sex: "female", Avatar: &avatar}, at))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Aina R", got.Name)
		require.NotNil(t, got.Avatar)
		assert.Equal(t, avatar, *got.Avatar)
		require.NotNil(t, got.UpdateAt)
		assert.True(t, at.Equal(*got.UpdateAt))

		err = repo.UpdateProfile(ctx, "US253999999999", model.Profile{Name: "x"}, at)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
