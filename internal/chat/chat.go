package chat

import (
	"context"
	"fmt"

	chathttp "aura-backend/internal/chat/adapter/http"
	"aura-backend/internal/chat/adapter/persistence/mongodb"
	"aura-backend/internal/chat/config"
	"aura-backend/internal/chat/usecase"
	idusecase "aura-backend/internal/idgen/usecase"
	"aura-backend/internal/membership"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared services the chat module needs.
type Dependencies struct {
	DB         *mongo.Database
	Membership *membership.MembershipModule
	IDs        idusecase.Allocator
	Events     eventbus.Publisher
	Validator  *validation.Validator
	Logger     logger.Logger
}

// ChatModule wires chat storage, the fan-out and the HTTP routes.
type ChatModule struct {
	usecase *usecase.ChatUsecase
	handler *chathttp.ChatHTTPHandler
}

// NewChatModule creates the module and its indexes.
func NewChatModule(ctx context.Context, deps Dependencies, cfg *config.Config) (*ChatModule, error) {
	chats, err := mongodb.NewChatRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat repository: %w", err)
	}
	messages, err := mongodb.NewMessageRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create message repository: %w", err)
	}

	uc := usecase.NewChatUsecase(
		chats,
		messages,
		deps.Membership.Mutator(),
		deps.Membership.Store(),
		deps.IDs,
		deps.Events,
		cfg,
		deps.Logger,
	)
	return &ChatModule{
		usecase: uc,
		handler: chathttp.NewChatHTTPHandler(uc, deps.Validator, deps.Logger),
	}, nil
}

// RegisterRoutes mounts /chat on a router guarded by Protect.
func (m *ChatModule) RegisterRoutes(user fiber.Router) {
	m.handler.SetupRoutes(user)
}

// GetUsecase returns the chat usecase for other modules.
func (m *ChatModule) GetUsecase() usecase.ChatUsecaseInterface {
	return m.usecase
}
