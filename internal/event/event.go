package event

import (
	"context"
	"fmt"

	eventhttp "aura-backend/internal/event/adapter/http"
	"aura-backend/internal/event/adapter/persistence/mongodb"
	"aura-backend/internal/event/config"
	"aura-backend/internal/event/usecase"
	idusecase "aura-backend/internal/idgen/usecase"
	"aura-backend/internal/membership"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared services the event module needs.
type Dependencies struct {
	DB         *mongo.Database
	Membership *membership.MembershipModule
	IDs        idusecase.Allocator
	Events     eventbus.Publisher
	Validator  *validation.Validator
	Logger     logger.Logger
}

// EventModule wires event storage, now-event fan-out and routes.
type EventModule struct {
	usecase *usecase.EventUsecase
	handler *eventhttp.EventHTTPHandler
}

// NewEventModule creates the module and its indexes.
func NewEventModule(ctx context.Context, deps Dependencies, cfg *config.Config) (*EventModule, error) {
	events, err := mongodb.NewEventRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create event repository: %w", err)
	}
	comments, err := mongodb.NewCommentRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment repository: %w", err)
	}

	uc := usecase.NewEventUsecase(events, comments, deps.Membership.Mutator(), deps.IDs, deps.Events, cfg, deps.Logger)
	return &EventModule{
		usecase: uc,
		handler: eventhttp.NewEventHTTPHandler(uc, deps.Validator, deps.Logger),
	}, nil
}

// RegisterRoutes mounts the event routes on a router guarded by Protect.
func (m *EventModule) RegisterRoutes(user fiber.Router) {
	m.handler.SetupRoutes(user)
}

// GetUsecase returns the event usecase for other modules.
func (m *EventModule) GetUsecase() usecase.EventUsecaseInterface {
	return m.usecase
}
