package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	idmodel "aura-backend/internal/idgen/domain/model"
	idusecase "aura-backend/internal/idgen/usecase"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/travel/config"
	"aura-backend/internal/travel/domain/model"
	"aura-backend/internal/travel/domain/repository"
)

const (
	msgNotOwner       = "Forbidden: You are not the owner of this travel plan"
	msgNotParticipant = "Forbidden: You are not a participant of this travel plan"
	msgNoScheduleWork = "Forbidden: You have no right to modify this travel plan"
)

// TravelUsecaseInterface lists the travel plan operations exposed over HTTP.
type TravelUsecaseInterface interface {
	CreatePlan(ctx context.Context, callerID string, req CreatePlanRequest) (*model.TravelPlan, error)
	UpdatePlan(ctx context.Context, callerID string, req UpdatePlanRequest) (*model.TravelPlan, error)
	DeletePlan(ctx context.Context, callerID, id string) error
	GetPlan(ctx context.Context, callerID, id string) (*model.TravelPlan, error)
	ListPlans(ctx context.Context, callerID string) ([]model.TravelPlan, error)
	CreateScheduleItem(ctx context.Context, callerID string, req CreateScheduleItemRequest) (*model.DailyPlan, error)
	UpdateScheduleItem(ctx context.Context, callerID string, req UpdateScheduleItemRequest) (*model.DailyPlan, error)
	DeleteScheduleItem(ctx context.Context, callerID string, req DeleteScheduleItemRequest) (*model.DailyPlan, error)
}

// TravelUsecase implements travel plans, their daily plans and schedule items.
type TravelUsecase struct {
	plans  repository.TravelPlanRepository
	ids    idusecase.Allocator
	config *config.Config
	log    logger.Logger
	now    func() time.Time
}

// NewTravelUsecase creates the usecase.
func NewTravelUsecase(plans repository.TravelPlanRepository, ids idusecase.Allocator, cfg *config.Config, log logger.Logger) *TravelUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &TravelUsecase{
		plans:  plans,
		ids:    ids,
		config: cfg,
		log:    log.WithComponent("travel"),
		now:    time.Now,
	}
}

// CreatePlan stores a plan owned by the caller with one empty daily plan per day.
func (uc *TravelUsecase) CreatePlan(ctx context.Context, callerID string, req CreatePlanRequest) (*model.TravelPlan, error) {
	if err := uc.checkSpan(req.Data); err != nil {
		return nil, err
	}

	id, err := uc.ids.Allocate(ctx, idmodel.TravelPlanID)
	if err != nil {
		return nil, err
	}
	days, err := uc.newDailyPlans(ctx, model.Days(req.Data.StartDate, req.Data.EndDate))
	if err != nil {
		return nil, err
	}

	plan := &model.TravelPlan{
		ID:             id,
		OwnerID:        callerID,
		Title:          req.Data.Title,
		StartDate:      model.Midnight(req.Data.StartDate),
		EndDate:        model.Midnight(req.Data.EndDate),
		Participants:   []model.Participant{{ID: callerID, Name: req.Owner.Name, Avatar: req.Owner.Avatar}},
		ParticipantIDs: []string{callerID},
		DailyPlans:     days,
		Version:        1,
		CreateAt:       uc.now().UTC(),
	}
	if err := uc.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"travelPlanId": id, "days": len(days)}).Info("Travel plan created")
	return plan, nil
}

// UpdatePlan changes title and dates. Daily plans for days still covered keep
// their schedule; days dropped from the range lose theirs.
func (uc *TravelUsecase) UpdatePlan(ctx context.Context, callerID string, req UpdatePlanRequest) (*model.TravelPlan, error) {
	if err := uc.checkSpan(req.Data); err != nil {
		return nil, err
	}
	plan, err := uc.loadOwned(ctx, callerID, req.ID)
	if err != nil {
		return nil, err
	}

	kept, added := model.DiffDays(plan.DailyPlans, req.Data.StartDate, req.Data.EndDate)
	fresh, err := uc.newDailyPlans(ctx, added)
	if err != nil {
		return nil, err
	}
	days := append(kept, fresh...)
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	removed := len(plan.DailyPlans) - len(kept)
	version := plan.Version
	at := uc.now().UTC()
	plan.Title = req.Data.Title
	plan.StartDate = model.Midnight(req.Data.StartDate)
	plan.EndDate = model.Midnight(req.Data.EndDate)
	plan.DailyPlans = days
	if err := uc.plans.Update(ctx, plan, version, at); err != nil {
		return nil, err
	}
	plan.Version = version + 1
	plan.UpdateAt = &at

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"travelPlanId": plan.ID,
		"added":        len(added),
		"removed":      removed,
	}).Info("Travel plan updated")
	return plan, nil
}

// DeletePlan removes a plan owned by the caller.
func (uc *TravelUsecase) DeletePlan(ctx context.Context, callerID, id string) error {
	plan, err := uc.loadOwned(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := uc.plans.Delete(ctx, id, plan.Version); err != nil {
		return err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"travelPlanId": id}).Info("Travel plan deleted")
	return nil
}

// GetPlan returns a plan the caller participates in.
func (uc *TravelUsecase) GetPlan(ctx context.Context, callerID, id string) (*model.TravelPlan, error) {
	plan, err := uc.plans.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !plan.HasParticipant(callerID) {
		return nil, apperrors.NewAuthorizationError(msgNotParticipant)
	}
	return plan, nil
}

// ListPlans returns the caller's plans, latest start first.
func (uc *TravelUsecase) ListPlans(ctx context.Context, callerID string) ([]model.TravelPlan, error) {
	return uc.plans.ListByParticipant(ctx, callerID)
}

func (uc *TravelUsecase) CreateScheduleItem(ctx context.Context, callerID string, req CreateScheduleItemRequest) (*model.DailyPlan, error) {
	if _, err := uc.loadDay(ctx, callerID, req.TravelPlanID, req.DailyPlanID, ""); err != nil {
		return nil, err
	}
	id, err := uc.ids.Allocate(ctx, idmodel.ScheduleItemID)
	if err != nil {
		return nil, err
	}

	plan, err := uc.plans.PushScheduleItem(ctx, req.TravelPlanID, req.DailyPlanID, item(id, req.Data.ScheduleItem))
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"travelPlanId": req.TravelPlanID, "dailyPlanId": req.DailyPlanID, "scheduleItemId": id,
	}).Info("Schedule item added")
	return dayOf(plan, req.DailyPlanID)
}

func (uc *TravelUsecase) UpdateScheduleItem(ctx context.Context, callerID string, req UpdateScheduleItemRequest) (*model.DailyPlan, error) {
	if _, err := uc.loadDay(ctx, callerID, req.TravelPlanID, req.DailyPlanID, req.ScheduleItemID); err != nil {
		return nil, err
	}
	plan, err := uc.plans.SetScheduleItem(ctx, req.TravelPlanID, req.DailyPlanID, item(req.ScheduleItemID, req.Data.ScheduleItem))
	if err != nil {
		return nil, err
	}
	return dayOf(plan, req.DailyPlanID)
}

func (uc *TravelUsecase) DeleteScheduleItem(ctx context.Context, callerID string, req DeleteScheduleItemRequest) (*model.DailyPlan, error) {
	if _, err := uc.loadDay(ctx, callerID, req.TravelPlanID, req.DailyPlanID, req.ScheduleItemID); err != nil {
		return nil, err
	}
	plan, err := uc.plans.PullScheduleItem(ctx, req.TravelPlanID, req.DailyPlanID, req.ScheduleItemID)
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"travelPlanId": req.TravelPlanID, "dailyPlanId": req.DailyPlanID, "scheduleItemId": req.ScheduleItemID,
	}).Info("Schedule item deleted")
	return dayOf(plan, req.DailyPlanID)
}

func (uc *TravelUsecase) checkSpan(d PlanData) error {
	n := model.DayCount(d.StartDate, d.EndDate)
	if n == 0 {
		return apperrors.NewValidationError(`"endDate" must be on or after "startDate"`)
	}
	if n > uc.config.MaxDays {
		return apperrors.NewValidationError(fmt.Sprintf("a travel plan may span at most %d days", uc.config.MaxDays))
	}
	return nil
}

func (uc *TravelUsecase) newDailyPlans(ctx context.Context, days []int64) ([]model.DailyPlan, error) {
	out := make([]model.DailyPlan, 0, len(days))
	for _, day := range days {
		id, err := uc.ids.Allocate(ctx, idmodel.DailyPlanID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.DailyPlan{ID: id, Date: day, ScheduleItems: []model.ScheduleItem{}})
	}
	return out, nil
}

func (uc *TravelUsecase) loadOwned(ctx context.Context, callerID, id string) (*model.TravelPlan, error) {
	plan, err := uc.plans.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != callerID {
		return nil, apperrors.NewAuthorizationError(msgNotOwner)
	}
	return plan, nil
}

// loadDay checks the caller may edit the plan's schedule and that the daily
// plan (and the item, when itemID is set) exists.
func (uc *TravelUsecase) loadDay(ctx context.Context, callerID, planID, dailyPlanID, itemID string) (*model.DailyPlan, error) {
	plan, err := uc.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.HasParticipant(callerID) {
		return nil, apperrors.NewAuthorizationError(msgNoScheduleWork)
	}
	day := plan.DailyPlan(dailyPlanID)
	if day == nil {
		return nil, apperrors.NewNotFoundError("Daily plan")
	}
	if itemID != "" && day.Item(itemID) == nil {
		return nil, apperrors.NewNotFoundError("Schedule item")
	}
	return day, nil
}

func item(id string, d ScheduleItemData) model.ScheduleItem {
	return model.ScheduleItem{ID: id, Title: d.Title, AssignedBy: d.AssignedBy, Time: d.Time}
}

func dayOf(plan *model.TravelPlan, dailyPlanID string) (*model.DailyPlan, error) {
	day := plan.DailyPlan(dailyPlanID)
	if day == nil {
		return nil, apperrors.NewNotFoundError("Daily plan")
	}
	return day, nil
}
