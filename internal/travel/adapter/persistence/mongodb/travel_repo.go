package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aura-backend/internal/shared/database"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/travel/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TravelPlansCollection stores travel plans with their daily plans embedded.
const TravelPlansCollection = "travelPlans"

// TravelPlanRepository implements repository.TravelPlanRepository.
type TravelPlanRepository struct {
	coll *mongo.Collection
}

// NewTravelPlanRepository creates the repository and its indexes.
func NewTravelPlanRepository(ctx context.Context, db *mongo.Database) (*TravelPlanRepository, error) {
	coll := db.Collection(TravelPlansCollection)
	if err := database.EnsureIndexes(ctx, coll,
		database.Index(false, "participantIds"),
		database.Index(false, "ownerId"),
	); err != nil {
		return nil, err
	}
	return &TravelPlanRepository{coll: coll}, nil
}

func (r *TravelPlanRepository) Create(ctx context.Context, plan *model.TravelPlan) error {
	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("Travel plan %s already exists", plan.ID))
		}
		return database.MapError(err, "Travel plan", "failed to create travel plan")
	}
	return nil
}

func (r *TravelPlanRepository) Get(ctx context.Context, id string) (*model.TravelPlan, error) {
	var plan model.TravelPlan
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return nil, database.MapError(err, "Travel plan", "failed to load travel plan")
	}
	return &plan, nil
}

func (r *TravelPlanRepository) ListByParticipant(ctx context.Context, userID string) ([]model.TravelPlan, error) {
	cur, err := r.coll.Find(ctx, bson.M{"participantIds": userID},
		options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, database.MapError(err, "Travel plan", "failed to list travel plans")
	}
	plans := []model.TravelPlan{}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, database.MapError(err, "Travel plan", "failed to list travel plans")
	}
	return plans, nil
}

func (r *TravelPlanRepository) Update(ctx context.Context, plan *model.TravelPlan, version int64, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": plan.ID, "version": version},
		bson.M{
			"$set": bson.M{
				"title":      plan.Title,
				"startDate":  plan.StartDate,
				"endDate":    plan.EndDate,
				"dailyPlans": plan.DailyPlans,
				"updateAt":   at,
			},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return database.MapError(err, "Travel plan", "failed to update travel plan")
	}
	if res.MatchedCount == 0 {
		return r.explainMiss(ctx, plan.ID)
	}
	return nil
}

func (r *TravelPlanRepository) Delete(ctx context.Context, id string, version int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return database.MapError(err, "Travel plan", "failed to delete travel plan")
	}
	if res.DeletedCount == 0 {
		return r.explainMiss(ctx, id)
	}
	return nil
}

func (r *TravelPlanRepository) PushScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error) {
	return r.modifyDay(ctx,
		bson.M{"_id": planID, "dailyPlans.id": dailyPlanID},
		bson.M{"$push": bson.M{"dailyPlans.$[dp].scheduleItems": item}},
		[]interface{}{bson.M{"dp.id": dailyPlanID}},
		"Daily plan")
}

func (r *TravelPlanRepository) SetScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error) {
	return r.modifyDay(ctx,
		bson.M{"_id": planID, "dailyPlans": bson.M{"$elemMatch": bson.M{"id": dailyPlanID, "scheduleItems.id": item.ID}}},
		bson.M{"$set": bson.M{"dailyPlans.$[dp].scheduleItems.$[si]": item}},
		[]interface{}{bson.M{"dp.id": dailyPlanID}, bson.M{"si.id": item.ID}},
		"Schedule item")
}

func (r *TravelPlanRepository) PullScheduleItem(ctx context.Context, planID, dailyPlanID, itemID string) (*model.TravelPlan, error) {
	return r.modifyDay(ctx,
		bson.M{"_id": planID, "dailyPlans": bson.M{"$elemMatch": bson.M{"id": dailyPlanID, "scheduleItems.id": itemID}}},
		bson.M{"$pull": bson.M{"dailyPlans.$[dp].scheduleItems": bson.M{"id": itemID}}},
		[]interface{}{bson.M{"dp.id": dailyPlanID}},
		"Schedule item")
}

// modifyDay applies update through array filters so concurrent edits to
// other days or items are not overwritten.
func (r *TravelPlanRepository) modifyDay(ctx context.Context, filter, update bson.M, arrayFilters []interface{}, resource string) (*model.TravelPlan, error) {
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: arrayFilters}).
		SetReturnDocument(options.After)

	var plan model.TravelPlan
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&plan)
	if errors.Is(err, mongo.ErrNoDocuments) {
		id, _ := filter["_id"].(string)
		if n, cerr := r.coll.CountDocuments(ctx, bson.M{"_id": id}); cerr == nil && n == 0 {
			return nil, apperrors.NewNotFoundError("Travel plan")
		}
		return nil, apperrors.NewNotFoundError(resource)
	}
	if err != nil {
		return nil, database.MapError(err, resource, "failed to update schedule")
	}
	return &plan, nil
}

func (r *TravelPlanRepository) explainMiss(ctx context.Context, id string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return database.MapError(err, "Travel plan", "failed to load travel plan")
	}
	if n == 0 {
		return apperrors.NewNotFoundError("Travel plan")
	}
	return apperrors.NewConflictError(fmt.Sprintf("Travel plan %s was modified concurrently", id))
}
