package mongodb

import (
	"context"
	"fmt"

	"aura-backend/internal/event/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventRepository implements repository.EventRepository over one
// collection per kind.
type EventRepository struct {
	collections map[model.Kind]*mongo.Collection
}

// NewEventRepository creates the repository and its indexes.
func NewEventRepository(ctx context.Context, db *mongo.Database) (*EventRepository, error) {
	repo := &EventRepository{collections: make(map[model.Kind]*mongo.Collection, len(model.Kinds))}
	for _, kind := range model.Kinds {
		coll := db.Collection(kind.Collection())
		if err := database.EnsureIndexes(ctx, coll,
			database.Index(false, "ownerId"),
			database.Index(false, "participantIds"),
		); err != nil {
			return nil, err
		}
		repo.collections[kind] = coll
	}
	return repo, nil
}

func (r *EventRepository) coll(kind model.Kind) (*mongo.Collection, error) {
	c, ok := r.collections[kind]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown event kind %q", kind))
	}
	return c, nil
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	coll, err := r.coll(event.Kind)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("%s %s already exists", event.Kind.Label(), event.ID))
		}
		return database.MapError(err, event.Kind.Label(), "failed to create event")
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, kind model.Kind, id string) (*model.Event, error) {
	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	var event model.Event
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		return nil, database.MapError(err, kind.Label(), "failed to load event")
	}
	return &event, nil
}

func (r *EventRepository) Replace(ctx context.Context, event *model.Event, expectedVersion int64) error {
	coll, err := r.coll(event.Kind)
	if err != nil {
		return err
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": event.ID, "version": expectedVersion}, event)
	if err != nil {
		return database.MapError(err, event.Kind.Label(), "failed to update event")
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, coll, event.Kind, event.ID)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, kind model.Kind, id string, version int64) error {
	coll, err := r.coll(kind)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return database.MapError(err, kind.Label(), "failed to delete event")
	}
	if res.DeletedCount == 0 {
		return r.explainMiss(ctx, coll, kind, id)
	}
	return nil
}

func (r *EventRepository) explainMiss(ctx context.Context, coll *mongo.Collection, kind model.Kind, id string) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return database.MapError(err, kind.Label(), "failed to load event")
	}
	if n == 0 {
		return apperrors.NewNotFoundError(kind.Label())
	}
	return apperrors.NewConflictError(fmt.Sprintf("%s %s was modified concurrently", kind.Label(), id))
}
