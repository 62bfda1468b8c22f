package auth

import (
	"context"
	"fmt"

	authhttp "aura-backend/internal/auth/adapter/http"
	"aura-backend/internal/auth/adapter/persistence/mongodb"
	authredis "aura-backend/internal/auth/adapter/persistence/redis"
	"aura-backend/internal/auth/adapter/security"
	"aura-backend/internal/auth/config"
	"aura-backend/internal/auth/usecase"
	idusecase "aura-backend/internal/idgen/usecase"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared services the auth module needs.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	IDs       idusecase.Allocator
	Events    eventbus.Publisher
	Validator *validation.Validator
	Logger    logger.Logger
}

// AuthModule represents the complete authentication module
type AuthModule struct {
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(ctx context.Context, deps Dependencies, cfg *config.Config) (*AuthModule, error) {
	users, err := mongodb.NewMongoUserRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(
		users,
		authredis.NewOTPStore(deps.Redis),
		authredis.NewTokenBlacklist(deps.Redis),
		tokenSvc,
		security.NewOTPGenerator(cfg.OTPLength),
		deps.IDs,
		deps.Events,
		cfg,
		deps.Logger,
	)

	return &AuthModule{
		usecase:    authUsecase,
		handler:    authhttp.NewAuthHTTPHandler(authUsecase, deps.Validator, deps.Logger),
		middleware: authhttp.NewAuthMiddleware(authUsecase, deps.Logger),
		config:     cfg,
	}, nil
}

// RegisterGuestRoutes mounts /guest on router.
func (am *AuthModule) RegisterGuestRoutes(router fiber.Router) {
	am.handler.SetupGuestRoutes(router, am.middleware.RateLimiter(am.config.GuestRateLimit, am.config.GuestRateWindow))
}

// RegisterUserRoutes mounts the profile routes on a router guarded by Protect.
func (am *AuthModule) RegisterUserRoutes(user fiber.Router) {
	am.handler.SetupUserRoutes(user)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}
