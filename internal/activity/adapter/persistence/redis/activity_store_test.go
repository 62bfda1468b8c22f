package redis

import (
	"context"
	"testing"
	"time"

	"aura-backend/internal/activity/domain/model"
	"aura-backend/internal/shared/redisclient/redistest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityStore(t *testing.T) {
	client := redistest.Client(t)
	store := NewActivityStore(client, nil)
	ctx := context.Background()

	at := time.Date(2025, 10, 5, 9, 30, 0, 0, time.UTC)
	var ids []string
	for _, typ := range []string{"chat.created", "chat.member_added", "chat.message_sent"} {
		id, err := store.Append(ctx, model.Entry{
			Type: typ, GroupID: "CH2510000000001", ActorID: "A", Members: []string{"A", "B"},
			Extra: map[string]string{"k": "v"}, Source: "chat", Timestamp: at,
		}, 100)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := store.Since(ctx, "CH2510000000001", "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "chat.created", all[0].Type)
	assert.Equal(t, []string{"A", "B"}, all[0].Members)
	assert.Equal(t, "v", all[0].Extra["k"])
	assert.True(t, at.Equal(all[0].Timestamp))

	after, err := store.Since(ctx, "CH2510000000001", ids[0], 10)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, ids[1], after[0].ID)

	none, err := store.Since(ctx, "CH-missing", "", 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := store.Trim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	left, err := store.Since(ctx, "CH2510000000001", "", 10)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	require.NoError(t, store.Expire(ctx, "CH2510000000001", time.Minute))
	ttl, err := client.TTL(ctx, model.StreamKey("CH2510000000001")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
