package http

import (
	"context"

	"aura-backend/internal/chat/domain/model"
	"aura-backend/internal/chat/usecase"
	memmodel "aura-backend/internal/membership/domain/model"
	memusecase "aura-backend/internal/membership/usecase"

	"github.com/stretchr/testify/mock"
)

type mockChatUsecase struct {
	mock.Mock
}

func (m *mockChatUsecase) CreateChat(ctx context.Context, callerID string, req usecase.CreateChatRequest) (*model.Chat, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chat), args.Error(1)
}

func (m *mockChatUsecase) UpdateChat(ctx context.Context, callerID string, req usecase.UpdateChatRequest) error {
	return m.Called(ctx, callerID, req).Error(0)
}

func (m *mockChatUsecase) DeleteChat(ctx context.Context, callerID string, req usecase.DeleteChatRequest) error {
	return m.Called(ctx, callerID, req).Error(0)
}

func (m *mockChatUsecase) SendMessage(ctx context.Context, callerID string, req usecase.SendMessageRequest) (*model.Message, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *mockChatUsecase) AddMember(ctx context.Context, callerID string, req usecase.AddMemberRequest) error {
	return m.Called(ctx, callerID, req).Error(0)
}

func (m *mockChatUsecase) KickMember(ctx context.Context, callerID string, req usecase.KickMemberRequest) error {
	return m.Called(ctx, callerID, req).Error(0)
}

func (m *mockChatUsecase) MarkRead(ctx context.Context, callerID, chatID string) error {
	return m.Called(ctx, callerID, chatID).Error(0)
}

func (m *mockChatUsecase) ListChats(ctx context.Context, callerID string) ([]memmodel.Entry, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memmodel.Entry), args.Error(1)
}

func (m *mockChatUsecase) ListMessages(ctx context.Context, callerID string, q usecase.MessagesQuery) ([]model.Message, error) {
	args := m.Called(ctx, callerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *mockChatUsecase) Repair(ctx context.Context, callerID string, req usecase.RepairRequest) (*memusecase.Result, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*memusecase.Result), args.Error(1)
}

func (m *mockChatUsecase) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}
