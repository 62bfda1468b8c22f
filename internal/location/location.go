package location

import (
	"context"
	"fmt"

	idusecase "aura-backend/internal/idgen/usecase"
	locationhttp "aura-backend/internal/location/adapter/http"
	"aura-backend/internal/location/adapter/persistence/mongodb"
	"aura-backend/internal/location/adapter/places"
	"aura-backend/internal/location/config"
	"aura-backend/internal/location/domain/repository"
	"aura-backend/internal/location/usecase"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the shared services the location module needs.
type Dependencies struct {
	DB        *mongo.Database
	IDs       idusecase.Allocator
	Validator *validation.Validator
	Logger    logger.Logger
}

// LocationModule wires the location cache, the places client and routes.
type LocationModule struct {
	usecase *usecase.LocationUsecase
	handler *locationhttp.LocationHTTPHandler
}

// NewLocationModule creates the module. Without PLACES_API_KEY searches use
// the cache only.
func NewLocationModule(ctx context.Context, deps Dependencies, cfg *config.Config) (*LocationModule, error) {
	locs, err := mongodb.NewLocationRepository(ctx, deps.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create location repository: %w", err)
	}

	var client repository.PlacesClient
	if cfg.PlacesEnabled() {
		client = places.NewClient(cfg, deps.Logger)
	} else if deps.Logger != nil {
		deps.Logger.Warn("PLACES_API_KEY not set, location search uses the cache only")
	}

	uc := usecase.NewLocationUsecase(locs, client, deps.IDs, cfg, deps.Logger)
	return &LocationModule{
		usecase: uc,
		handler: locationhttp.NewLocationHTTPHandler(uc, deps.Validator, deps.Logger),
	}, nil
}

// RegisterRoutes mounts the location routes on a router guarded by Protect.
func (m *LocationModule) RegisterRoutes(user fiber.Router) {
	m.handler.SetupRoutes(user)
}

// Close waits for background cache writes.
func (m *LocationModule) Close() {
	m.usecase.Wait()
}
