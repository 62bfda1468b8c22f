package repository

import (
	"context"
	"time"

	"aura-backend/internal/event/domain/model"
)

// EventRepository stores events, one collection per kind.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, kind model.Kind, id string) (*model.Event, error)
	// Replace overwrites the stored event if it is still at expectedVersion.
	// event.Version must already hold the next version.
	Replace(ctx context.Context, event *model.Event, expectedVersion int64) error
	Delete(ctx context.Context, kind model.Kind, id string, version int64) error
}

// CommentRepository stores future-event comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	Get(ctx context.Context, id string) (*model.Comment, error)
	Update(ctx context.Context, id string, body model.CommentBody, at time.Time) error
	Delete(ctx context.Context, id string) error
	// ListByEvent returns up to limit comments, oldest first.
	ListByEvent(ctx context.Context, eventID string, limit int) ([]model.Comment, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}
