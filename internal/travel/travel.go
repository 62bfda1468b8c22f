package travel

import (
	"context"
	"fmt"

	idusecase "aura-backend/internal/idgen/usecase"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"
	travelhttp "aura-backend/internal/travel/adapter/http"
	"aura-backend/internal/travel/adapter/persistence/mongodb"
	"aura-backend/internal/travel/config"
	"aura-backend/internal/travel/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared services the travel module needs.
type Dependencies struct {
	DB        *mongo.Database
	IDs       idusecase.Allocator
	Validator *validation.Validator
	Logger    logger.Logger
}

// TravelModule wires travel plan storage and routes.
type TravelModule struct {
	usecase *usecase.TravelUsecase
	handler *travelhttp.TravelHTTPHandler
}

// NewTravelModule creates the module and its indexes.
func NewTravelModule(ctx context.Context, deps Dependencies, cfg *config.Config) (*TravelModule, error) {
	plans, err := mongodb.NewTravelPlanRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create travel plan repository: %w", err)
	}
	uc := usecase.NewTravelUsecase(plans, deps.IDs, cfg, deps.Logger)
	return &TravelModule{
		usecase: uc,
		handler: travelhttp.NewTravelHTTPHandler(uc, deps.Validator, deps.Logger),
	}, nil
}

// RegisterRoutes mounts the travel routes on a router guarded by Protect.
func (m *TravelModule) RegisterRoutes(user fiber.Router) {
	m.handler.SetupRoutes(user)
}
