package mongodb

import (
	"context"
	"fmt"
	"time"

	"aura-backend/internal/membership/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// UsersCollection holds user documents, including their chats and events maps.
const UsersCollection = "users"

// MemberStore keeps membership entries as map fields on user documents and
// updates them with targeted field operators.
type MemberStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewMemberStore creates a store on db.
func NewMemberStore(client *mongo.Client, db *mongo.Database) *MemberStore {
	return &MemberStore{client: client, users: db.Collection(UsersCollection)}
}

// RunInTransaction runs fn inside a multi-document transaction. The driver
// retries fn on TransientTransactionError. Nested calls join the outer session.
func (s *MemberStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return database.MapError(err, "Session", "failed to start session")
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	if err != nil {
		return database.MapError(err, "Transaction", "transaction failed")
	}
	return nil
}

// LoadMembers fetches the requested users in one query.
func (s *MemberStore) LoadMembers(ctx context.Context, kind model.Kind, userIDs []string) (map[string]*model.Member, error) {
	members := make(map[string]*model.Member, len(userIDs))
	if len(userIDs) == 0 {
		return members, nil
	}

	opts := options.Find().SetProjection(bson.M{kind.Field(): 1})
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}}, opts)
	if err != nil {
		return nil, database.MapError(err, "User", "failed to load participants")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var m model.Member
		if err := cursor.Decode(&m); err != nil {
			return nil, apperrors.NewInternalError("failed to decode participant").WithCause(err)
		}
		members[m.ID] = &m
	}
	if err := cursor.Err(); err != nil {
		return nil, database.MapError(err, "User", "failed to load participants")
	}
	return members, nil
}

// ApplyPatch performs one targeted update on a user document.
func (s *MemberStore) ApplyPatch(ctx context.Context, patch model.Patch) error {
	filter, update, err := BuildUpdate(patch)
	if err != nil {
		return err
	}

	res, err := s.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return database.MapError(err, "User", "failed to update participant")
	}
	if res.MatchedCount == 0 {
		if patch.Action == model.PatchUpdate {
			return apperrors.NewPreconditionError(fmt.Sprintf("%s %s no longer exists for user %s", patch.Kind, patch.GroupID, patch.UserID))
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("User %s", patch.UserID))
	}
	return nil
}

// BuildUpdate translates a patch into a filter and update document.
func BuildUpdate(p model.Patch) (bson.M, bson.M, error) {
	if p.UserID == "" || p.GroupID == "" {
		return nil, nil, apperrors.NewValidationError("patch needs a user and a group")
	}
	path := p.Kind.Field() + "." + p.GroupID
	filter := bson.M{"_id": p.UserID}

	switch p.Action {
	case model.PatchPut:
		if p.Entry == nil {
			return nil, nil, apperrors.NewValidationError("put patch without entry")
		}
		return filter, bson.M{"$set": bson.M{path: p.Entry, "updateAt": time.Now().UTC()}}, nil

	case model.PatchRemove:
		return filter, bson.M{
			"$unset": bson.M{path: ""},
			"$set":   bson.M{"updateAt": time.Now().UTC()},
		}, nil

	case model.PatchUpdate:
		filter[path] = bson.M{"$exists": true}
		set := bson.M{"updateAt": time.Now().UTC()}
		for field, v := range p.Set {
			set[path+"."+field] = v
		}
		update := bson.M{"$set": set}
		if len(p.Inc) > 0 {
			inc := bson.M{}
			for field, n := range p.Inc {
				inc[path+"."+field] = n
			}
			update["$inc"] = inc
		}
		if p.AddParticipant != "" {
			update["$addToSet"] = bson.M{path + "." + model.FieldParticipantIDs: p.AddParticipant}
		}
		return filter, update, nil
	}
	return nil, nil, apperrors.NewValidationError(fmt.Sprintf("unknown patch action %q", p.Action))
}
