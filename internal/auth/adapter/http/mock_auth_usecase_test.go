package http

import (
	"context"

	"aura-backend/internal/auth/domain/model"
	"aura-backend/internal/auth/domain/repository"
	"aura-backend/internal/auth/usecase"

	"github.com/stretchr/testify/mock"
)

// mockAuthUsecase is a shared mock type for the AuthUsecaseInterface
type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) RequestOTP(ctx context.Context, req usecase.OTPRequest) (*usecase.OTPResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.OTPResult), args.Error(1)
}

func (m *mockAuthUsecase) LoginOrRegister(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginResult), args.Error(1)
}

func (m *mockAuthUsecase) LoginByToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthUsecase) CreateAccount(ctx context.Context, req usecase.CreateAccountRequest) (*usecase.CreateAccountResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateAccountResult), args.Error(1)
}

func (m *mockAuthUsecase) ValidateToken(ctx context.Context, token string) (*repository.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthUsecase) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthUsecase) UpdateProfile(ctx context.Context, userID string, req usecase.ProfileUpdateRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}
