package mongodb

import (
	"context"
	"fmt"

	"aura-backend/internal/location/domain/model"
	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationsCollection caches places by name.
const LocationsCollection = "locations"

// prefixEnd closes a name range scan; it sorts after every character used in place names.
const prefixEnd = "\uf8ff"

// LocationRepository implements repository.LocationRepository.
type LocationRepository struct {
	coll *mongo.Collection
}

// NewLocationRepository creates the repository and its indexes.
func NewLocationRepository(ctx context.Context, db *mongo.Database) (*LocationRepository, error) {
	coll := db.Collection(LocationsCollection)
	if err := database.EnsureIndexes(ctx, coll,
		database.Index(false, "name"),
		database.Index(true, "name", "address"),
	); err != nil {
		return nil, err
	}
	return &LocationRepository{coll: coll}, nil
}

func (r *LocationRepository) PrefixScan(ctx context.Context, prefix string) ([]model.Location, error) {
	return r.find(ctx, bson.M{"name": bson.M{"$gte": prefix, "$lte": prefix + prefixEnd}}, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *LocationRepository) Sample(ctx context.Context, limit int64) ([]model.Location, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}).SetLimit(limit))
}

func (r *LocationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Location, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.MapError(err, "Location", "failed to search locations")
	}
	locs := []model.Location{}
	if err := cur.All(ctx, &locs); err != nil {
		return nil, database.MapError(err, "Location", "failed to search locations")
	}
	return locs, nil
}

func (r *LocationRepository) Exists(ctx context.Context, name, address string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"name": name, "address": address}, options.Count().SetLimit(1))
	if err != nil {
		return false, database.MapError(err, "Location", "failed to look up location")
	}
	return n > 0, nil
}

func (r *LocationRepository) Create(ctx context.Context, loc *model.Location) error {
	if _, err := r.coll.InsertOne(ctx, loc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("Location %q at %q already exists", loc.Name, loc.Address))
		}
		return database.MapError(err, "Location", "failed to save location")
	}
	return nil
}
