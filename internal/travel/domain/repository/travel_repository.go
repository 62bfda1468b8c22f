package repository

import (
	"context"
	"time"

	"aura-backend/internal/travel/domain/model"
)

// TravelPlanRepository persists travel plans. Schedule changes target a
// single daily plan and return the updated travel plan.
type TravelPlanRepository interface {
	Create(ctx context.Context, plan *model.TravelPlan) error
	Get(ctx context.Context, id string) (*model.TravelPlan, error)
	ListByParticipant(ctx context.Context, userID string) ([]model.TravelPlan, error)
	// Update replaces title, dates and daily plans if the stored version
	// still equals version.
	Update(ctx context.Context, plan *model.TravelPlan, version int64, at time.Time) error
	Delete(ctx context.Context, id string, version int64) error

	PushScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error)
	SetScheduleItem(ctx context.Context, planID, dailyPlanID string, item model.ScheduleItem) (*model.TravelPlan, error)
	PullScheduleItem(ctx context.Context, planID, dailyPlanID, itemID string) (*model.TravelPlan, error)
}
