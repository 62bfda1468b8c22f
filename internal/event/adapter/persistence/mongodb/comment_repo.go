package mongodb

import (
	"context"
	"time"

	"aura-backend/internal/event/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentsCollection holds future-event comments.
const CommentsCollection = "comments"

// CommentRepository implements repository.CommentRepository.
type CommentRepository struct {
	comments *mongo.Collection
}

// NewCommentRepository creates the repository and its indexes.
func NewCommentRepository(ctx context.Context, db *mongo.Database) (*CommentRepository, error) {
	repo := &CommentRepository{comments: db.Collection(CommentsCollection)}
	byEvent := mongo.IndexModel{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: 1}}}
	if err := database.EnsureIndexes(ctx, repo.comments, byEvent); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewValidationError("Comment already exists")
		}
		return database.MapError(err, "Comment", "failed to add comment")
	}
	return nil
}

func (r *CommentRepository) Get(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, database.MapError(err, "Comment", "failed to load comment")
	}
	return &c, nil
}

func (r *CommentRepository) Update(ctx context.Context, id string, body model.CommentBody, at time.Time) error {
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":     body.Name,
		"avatar":   body.Avatar,
		"content":  body.Content,
		"updateAt": at,
	}})
	if err != nil {
		return database.MapError(err, "Comment", "failed to update comment")
	}
	if res.MatchedCount == 0 {
		return apperrors.NewNotFoundError("Comment")
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return database.MapError(err, "Comment", "failed to delete comment")
	}
	if res.DeletedCount == 0 {
		return apperrors.NewNotFoundError("Comment")
	}
	return nil
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]model.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.comments.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, database.MapError(err, "Comment", "failed to list comments")
	}
	defer cursor.Close(ctx)

	comments := make([]model.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, apperrors.NewInternalError("failed to decode comments").WithCause(err)
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.comments.DeleteMany(ctx, bson.M{"eventId": eventID})
	return database.MapError(err, "Comment", "failed to delete comments")
}
