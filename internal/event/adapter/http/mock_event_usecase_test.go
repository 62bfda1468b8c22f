package http

import (
	"context"

	"aura-backend/internal/event/domain/model"
	"aura-backend/internal/event/usecase"

	"github.com/stretchr/testify/mock"
)

type mockEventUsecase struct {
	mock.Mock
}

func (m *mockEventUsecase) event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventUsecase) CreateEvent(ctx context.Context, callerID string, kind model.Kind, in usecase.Input, owner *usecase.Owner) (*model.Event, error) {
	return m.event(m.Called(ctx, callerID, kind, in, owner))
}

func (m *mockEventUsecase) UpdateEvent(ctx context.Context, callerID string, kind model.Kind, id string, in usecase.Input) (*model.Event, error) {
	return m.event(m.Called(ctx, callerID, kind, id, in))
}

func (m *mockEventUsecase) DeleteEvent(ctx context.Context, callerID string, kind model.Kind, id string) error {
	return m.Called(ctx, callerID, kind, id).Error(0)
}

func (m *mockEventUsecase) GetEvent(ctx context.Context, callerID string, kind model.Kind, id string) (*model.Event, error) {
	return m.event(m.Called(ctx, callerID, kind, id))
}

func (m *mockEventUsecase) JoinNowEvent(ctx context.Context, callerID string, req usecase.JoinRequest) (*model.Event, error) {
	return m.event(m.Called(ctx, callerID, req))
}

func (m *mockEventUsecase) LeaveNowEvent(ctx context.Context, callerID, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *mockEventUsecase) CreateComment(ctx context.Context, callerID string, req usecase.CreateCommentRequest) (*model.Comment, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *mockEventUsecase) UpdateComment(ctx context.Context, callerID string, req usecase.UpdateCommentRequest) error {
	return m.Called(ctx, callerID, req).Error(0)
}

func (m *mockEventUsecase) DeleteComment(ctx context.Context, callerID, commentID string) error {
	return m.Called(ctx, callerID, commentID).Error(0)
}

func (m *mockEventUsecase) ListComments(ctx context.Context, q usecase.CommentsQuery) ([]model.Comment, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *mockEventUsecase) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}
