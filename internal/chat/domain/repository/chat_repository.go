package repository

import (
	"context"
	"time"

	"aura-backend/internal/chat/domain/model"
)

// ChatRepository stores authoritative chat records. Writes that change
// membership or metadata take the version they were based on and fail with a
// conflict error when the record has moved on.
type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	Get(ctx context.Context, id string) (*model.Chat, error)
	Update(ctx context.Context, id string, version int64, changes model.Changes, at time.Time) error
	Delete(ctx context.Context, id string, version int64) error
	// RecordMessage stamps the chat's last message time, failing unless
	// senderID is still a participant.
	RecordMessage(ctx context.Context, id, senderID string, at time.Time) error
}

// MessageRepository stores chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg *model.Message) error
	// List returns up to limit messages older than before, newest first.
	List(ctx context.Context, chatID string, before time.Time, limit int) ([]model.Message, error)
	Latest(ctx context.Context, chatID string) (*model.Message, error)
	DeleteByChat(ctx context.Context, chatID string) error
}
