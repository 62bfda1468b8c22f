package mongodb

import (
	"context"
	"time"

	"aura-backend/internal/auth/domain/model"
	"aura-backend/internal/auth/domain/repository"
	"aura-backend/internal/shared/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection holds accounts and their membership maps.
const UsersCollection = "users"

// MongoUserRepository implements repository.UserRepository.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates the repository and its indexes.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	repo := &MongoUserRepository{users: db.Collection(UsersCollection)}

	tokenIndex := database.Index(false, "token")
	tokenIndex.Options = options.Index().SetSparse(true)
	if err := database.EnsureIndexes(ctx, repo.users,
		database.Index(true, "phoneNo"),
		tokenIndex,
	); err != nil {
		return nil, err
	}
	return repo, nil
}

// Create inserts user. A taken phone number yields ErrDuplicatePhone.
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicatePhone
		}
		return database.MapError(err, "User", "failed to create user")
	}
	return nil
}

// GetByID returns the user with the given id.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByPhone returns the user registered with phoneNo.
func (r *MongoUserRepository) GetByPhone(ctx context.Context, phoneNo string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"phoneNo": phoneNo})
}

// GetByToken returns the user whose current session token is token.
func (r *MongoUserRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, database.MapError(mongo.ErrNoDocuments, "User", "")
	}
	return r.findOne(ctx, bson.M{"token": token})
}

// SetToken stores token as the user's current session.
func (r *MongoUserRepository) SetToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"token": token}}, "failed to store token")
}

// ClearToken removes token if it is still the user's current session.
func (r *MongoUserRepository) ClearToken(ctx context.Context, id, token string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "token": token},
		bson.M{"$unset": bson.M{"token": ""}},
	)
	return database.MapError(err, "User", "failed to clear token")
}

// UpdateProfile overwrites name, sex and avatar.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, profile model.Profile, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"name":     profile.Name,
		"sex":      profile.Sex,
		"avatar":   profile.Avatar,
		"updateAt": at,
	}}
	return r.updateOne(ctx, bson.M{"_id": id}, update, "failed to update profile")
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, database.MapError(err, "User", "failed to load user")
	}
	return &user, nil
}

func (r *MongoUserRepository) updateOne(ctx context.Context, filter, update bson.M, msg string) error {
	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return database.MapError(err, "User", msg)
	}
	if res.MatchedCount == 0 {
		return database.MapError(mongo.ErrNoDocuments, "User", msg)
	}
	return nil
}

var _ repository.UserRepository = (*MongoUserRepository)(nil)
