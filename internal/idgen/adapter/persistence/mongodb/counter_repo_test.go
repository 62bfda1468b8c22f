package mongodb

import (
	"context"
	"sort"
	"sync"
	"testing"

	"aura-backend/internal/shared/database/mongotest"
	apperrors "aura-backend/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCounterRepository_Mongo(t *testing.T) {
	db := mongotest.Start(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	t.Run("absent bucket starts at one", func(t *testing.T) {
		current, err := repo.Current(ctx, "users253Counter")
		require.NoError(t, err)
		assert.Zero(t, current)

		n, err := repo.Increment(ctx, "users253Counter", 999_999_999_999)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)
	})

	t.Run("concurrent increments are consecutive", func(t *testing.T) {
		const n = 50
		got := make([]int, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := repo.Increment(ctx, "message256Counter", 999_999_999_999)
				assert.NoError(t, err)
				got[i] = int(v)
			}(i)
		}
		wg.Wait()
		sort.Ints(got)
		for i, v := range got {
			assert.Equal(t, i+1, v)
		}
	})

	t.Run("ceiling fails without writing", func(t *testing.T) {
		_, err := db.Collection("meta").InsertOne(ctx, bson.M{"_id": "chats2511Counter", "lastNumber": int64(999_999_999_999)})
		require.NoError(t, err)

		_, err = repo.Increment(ctx, "chats2511Counter", 999_999_999_999)
		assert.True(t, apperrors.IsAllocationExhausted(err))

		current, err := repo.Current(ctx, "chats2511Counter")
		require.NoError(t, err)
		assert.Equal(t, uint64(999_999_999_999), current)

		count, err := db.Collection("meta").CountDocuments(ctx, bson.M{"_id": "chats2511Counter"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
