package mongodb

import (
	"context"
	"fmt"
	"time"

	"aura-backend/internal/chat/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChatsCollection holds authoritative chat records.
const ChatsCollection = "chats"

// ChatRepository implements repository.ChatRepository. Every membership or
// metadata write is conditioned on the version it was read at.
type ChatRepository struct {
	chats *mongo.Collection
}

// NewChatRepository creates the repository and its indexes.
func NewChatRepository(ctx context.Context, db *mongo.Database) (*ChatRepository, error) {
	repo := &ChatRepository{chats: db.Collection(ChatsCollection)}
	if err := database.EnsureIndexes(ctx, repo.chats, database.Index(false, "participantIds")); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ChatRepository) Create(ctx context.Context, chat *model.Chat) error {
	if _, err := r.chats.InsertOne(ctx, chat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("Chat %s already exists", chat.ID))
		}
		return database.MapError(err, "Chat", "failed to create chat")
	}
	return nil
}

func (r *ChatRepository) Get(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	if err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat); err != nil {
		return nil, database.MapError(err, "Chat", "failed to load chat")
	}
	return &chat, nil
}

func (r *ChatRepository) Update(ctx context.Context, id string, version int64, changes model.Changes, at time.Time) error {
	set := bson.M{"updateAt": at}
	if changes.ParticipantIDs != nil {
		set["participantIds"] = changes.ParticipantIDs
	}
	if changes.GroupName != nil {
		set["groupName"] = *changes.GroupName
	}
	if changes.GroupAvatar != nil {
		set["groupAvatar"] = *changes.GroupAvatar
	}

	res, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return database.MapError(err, "Chat", "failed to update chat")
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, id, "")
	}
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string, version int64) error {
	res, err := r.chats.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return database.MapError(err, "Chat", "failed to delete chat")
	}
	if res.DeletedCount == 0 {
		return r.explainMiss(ctx, id, "")
	}
	return nil
}

func (r *ChatRepository) RecordMessage(ctx context.Context, id, senderID string, at time.Time) error {
	res, err := r.chats.UpdateOne(ctx,
		bson.M{"_id": id, "participantIds": senderID},
		bson.M{"$set": bson.M{"lastMessageAt": at, "updateAt": at}},
	)
	if err != nil {
		return database.MapError(err, "Chat", "failed to record message")
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, id, senderID)
	}
	return nil
}

// explainMiss tells a missing chat apart from a lost race after a
// conditional write matched nothing.
func (r *ChatRepository) explainMiss(ctx context.Context, id, senderID string) error {
	n, err := r.chats.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return database.MapError(err, "Chat", "failed to load chat")
	}
	if n == 0 {
		return apperrors.NewPreconditionError(fmt.Sprintf("Chat %s does not exist", id))
	}
	if senderID != "" {
		return apperrors.NewPreconditionError("you are not one of the member in the chat")
	}
	return apperrors.NewConflictError(fmt.Sprintf("Chat %s was modified concurrently", id))
}
