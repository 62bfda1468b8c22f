package mongodb

import (
	"context"
	"time"

	"aura-backend/internal/chat/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessagesCollection holds chat messages.
const MessagesCollection = "messages"

// MessageRepository implements repository.MessageRepository.
type MessageRepository struct {
	messages *mongo.Collection
}

// NewMessageRepository creates the repository and its indexes.
func NewMessageRepository(ctx context.Context, db *mongo.Database) (*MessageRepository, error) {
	repo := &MessageRepository{messages: db.Collection(MessagesCollection)}
	byChat := mongo.IndexModel{Keys: bson.D{{Key: "chatId", Value: 1}, {Key: "createAt", Value: -1}}}
	if err := database.EnsureIndexes(ctx, repo.messages, byChat); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MessageRepository) Insert(ctx context.Context, msg *model.Message) error {
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return database.MapError(err, "Message", "failed to store message")
	}
	return nil
}

func (r *MessageRepository) List(ctx context.Context, chatID string, before time.Time, limit int) ([]model.Message, error) {
	filter := bson.M{"chatId": chatID}
	if !before.IsZero() {
		filter["createAt"] = bson.M{"$lt": before}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.MapError(err, "Message", "failed to list messages")
	}
	defer cursor.Close(ctx)

	messages := make([]model.Message, 0, limit)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, apperrors.NewInternalError("failed to decode messages").WithCause(err)
	}
	return messages, nil
}

func (r *MessageRepository) Latest(ctx context.Context, chatID string) (*model.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createAt", Value: -1}, {Key: "_id", Value: -1}})
	var msg model.Message
	if err := r.messages.FindOne(ctx, bson.M{"chatId": chatID}, opts).Decode(&msg); err != nil {
		return nil, database.MapError(err, "Message", "failed to load latest message")
	}
	return &msg, nil
}

func (r *MessageRepository) DeleteByChat(ctx context.Context, chatID string) error {
	_, err := r.messages.DeleteMany(ctx, bson.M{"chatId": chatID})
	return database.MapError(err, "Message", "failed to delete messages")
}
