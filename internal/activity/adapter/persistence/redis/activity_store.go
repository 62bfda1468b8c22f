package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"aura-backend/internal/activity/domain/model"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"

	goredis "github.com/redis/go-redis/v9"
)

// streamRegistry is a set of every stream key written, so trimming does
// not need KEYS.
const streamRegistry = "activity:streams"

// ActivityStore implements repository.ActivityStore on Redis Streams.
type ActivityStore struct {
	client *goredis.Client
	log    logger.Logger
}

// NewActivityStore creates the store.
func NewActivityStore(client *goredis.Client, log logger.Logger) *ActivityStore {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityStore{client: client, log: log.WithComponent("activity-store")}
}

func (s *ActivityStore) Append(ctx context.Context, e model.Entry, maxLen int64) (string, error) {
	members, err := json.Marshal(e.Members)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode activity members").WithCause(err)
	}
	extra, err := json.Marshal(e.Extra)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode activity extra").WithCause(err)
	}

	key := model.StreamKey(e.GroupID)
	add := &goredis.XAddArgs{
		Stream: key,
		MaxLen: maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":      e.Type,
			"groupId":   e.GroupID,
			"actorId":   e.ActorID,
			"targetId":  e.TargetID,
			"members":   members,
			"extra":     extra,
			"source":    e.Source,
			"timestamp": e.Timestamp.UnixNano(),
		},
	}

	pipe := s.client.TxPipeline()
	id := pipe.XAdd(ctx, add)
	pipe.SAdd(ctx, streamRegistry, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", apperrors.NewStorageUnavailableError("failed to append activity", err)
	}

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"stream": key,
		"type":   e.Type,
		"id":     id.Val(),
	}).Debug("activity appended")
	return id.Val(), nil
}

func (s *ActivityStore) Since(ctx context.Context, groupID, since string, limit int64) ([]model.Entry, error) {
	start := "-"
	if since != "" {
		start = "(" + since
	}

	msgs, err := s.client.XRangeN(ctx, model.StreamKey(groupID), start, "+", limit).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return []model.Entry{}, nil
		}
		return nil, apperrors.NewStorageUnavailableError("failed to read activity", err)
	}

	entries := make([]model.Entry, 0, len(msgs))
	for _, msg := range msgs {
		entries = append(entries, parseEntry(msg))
	}
	return entries, nil
}

func (s *ActivityStore) Expire(ctx context.Context, groupID string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, model.StreamKey(groupID), ttl).Err(); err != nil {
		return apperrors.NewStorageUnavailableError("failed to expire activity", err)
	}
	return nil
}

func (s *ActivityStore) Trim(ctx context.Context, maxLen int64) (int, error) {
	keys, err := s.client.SMembers(ctx, streamRegistry).Result()
	if err != nil {
		return 0, apperrors.NewStorageUnavailableError("failed to list activity streams", err)
	}

	trimmed := 0
	for _, key := range keys {
		n, err := s.client.Exists(ctx, key).Result()
		if err != nil {
			s.log.WithContext(ctx).Warnf("failed to check stream %s: %v", key, err)
			continue
		}
		if n == 0 {
			s.client.SRem(ctx, streamRegistry, key)
			continue
		}

		cut, err := s.client.XTrimMaxLen(ctx, key, maxLen).Result()
		if err != nil {
			s.log.WithContext(ctx).Warnf("failed to trim stream %s: %v", key, err)
			continue
		}
		if cut > 0 {
			trimmed++
		}
	}

	if trimmed > 0 {
		s.log.WithContext(ctx).WithFields(map[string]interface{}{"streams": trimmed}).Info("trimmed activity streams")
	}
	return trimmed, nil
}

func parseEntry(msg goredis.XMessage) model.Entry {
	str := func(k string) string {
		v, _ := msg.Values[k].(string)
		return v
	}

	e := model.Entry{
		ID:       msg.ID,
		Type:     str("type"),
		GroupID:  str("groupId"),
		ActorID:  str("actorId"),
		TargetID: str("targetId"),
		Source:   str("source"),
	}
	if ns, err := strconv.ParseInt(str("timestamp"), 10, 64); err == nil {
		e.Timestamp = time.Unix(0, ns).UTC()
	}
	if raw := str("members"); raw != "" && raw != "null" {
		_ = json.Unmarshal([]byte(raw), &e.Members)
	}
	if raw := str("extra"); raw != "" && raw != "null" {
		_ = json.Unmarshal([]byte(raw), &e.Extra)
	}
	return e
}
