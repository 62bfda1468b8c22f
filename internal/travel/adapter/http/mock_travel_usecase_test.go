package http

import (
	"context"

	"aura-backend/internal/travel/domain/model"
	"aura-backend/internal/travel/usecase"

	"github.com/stretchr/testify/mock"
)

type mockTravelUsecase struct {
	mock.Mock
}

func plan(args mock.Arguments) (*model.TravelPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPlan), args.Error(1)
}

func day(args mock.Arguments) (*model.DailyPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyPlan), args.Error(1)
}

func (m *mockTravelUsecase) CreatePlan(ctx context.Context, callerID string, req usecase.CreatePlanRequest) (*model.TravelPlan, error) {
	return plan(m.Called(ctx, callerID, req))
}

func (m *mockTravelUsecase) UpdatePlan(ctx context.Context, callerID string, req usecase.UpdatePlanRequest) (*model.TravelPlan, error) {
	return plan(m.Called(ctx, callerID, req))
}

func (m *mockTravelUsecase) DeletePlan(ctx context.Context, callerID, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *mockTravelUsecase) GetPlan(ctx context.Context, callerID, id string) (*model.TravelPlan, error) {
	return plan(m.Called(ctx, callerID, id))
}

func (m *mockTravelUsecase) ListPlans(ctx context.Context, callerID string) ([]model.TravelPlan, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TravelPlan), args.Error(1)
}

func (m *mockTravelUsecase) CreateScheduleItem(ctx context.Context, callerID string, req usecase.CreateScheduleItemRequest) (*model.DailyPlan, error) {
	return day(m.Called(ctx, callerID, req))
}

func (m *mockTravelUsecase) UpdateScheduleItem(ctx context.Context, callerID string, req usecase.UpdateScheduleItemRequest) (*model.DailyPlan, error) {
	return day(m.Called(ctx, callerID, req))
}

func (m *mockTravelUsecase) DeleteScheduleItem(ctx context.Context, callerID string, req usecase.DeleteScheduleItemRequest) (*model.DailyPlan, error) {
	return day(m.Called(ctx, callerID, req))
}
