package activity

import (
	"context"

	activityhttp "aura-backend/internal/activity/adapter/http"
	"aura-backend/internal/activity/adapter/persistence/redis"
	"aura-backend/internal/activity/config"
	"aura-backend/internal/activity/domain/model"
	"aura-backend/internal/activity/usecase"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/validation"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
)

// Dependencies are the shared services the activity module needs.
type Dependencies struct {
	Redis     *goredis.Client
	Bus       usecase.Subscriber
	Chats     usecase.MembershipChecker
	Events    usecase.MembershipChecker
	Validator *validation.Validator
	Logger    logger.Logger
}

// ActivityModule records chat and now-event activity into Redis streams.
type ActivityModule struct {
	usecase   *usecase.ActivityUsecase
	handler   *activityhttp.ActivityHTTPHandler
	scheduler *usecase.TrimScheduler
}

// NewActivityModule creates the module and subscribes it to the bus.
func NewActivityModule(deps Dependencies, cfg *config.Config) (*ActivityModule, error) {
	store := redis.NewActivityStore(deps.Redis, deps.Logger)
	uc := usecase.NewActivityUsecase(store, map[model.GroupKind]usecase.MembershipChecker{
		model.GroupChat:  deps.Chats,
		model.GroupEvent: deps.Events,
	}, cfg, deps.Logger)
	uc.Subscribe(deps.Bus)

	scheduler, err := usecase.NewTrimScheduler(uc, cfg.TrimCron, deps.Logger)
	if err != nil {
		return nil, err
	}
	return &ActivityModule{
		usecase:   uc,
		handler:   activityhttp.NewActivityHTTPHandler(uc, deps.Validator, deps.Logger),
		scheduler: scheduler,
	}, nil
}

// RegisterRoutes mounts the activity routes on a router guarded by Protect.
func (m *ActivityModule) RegisterRoutes(user fiber.Router) {
	m.handler.SetupRoutes(user)
}

// Start begins periodic stream trimming.
func (m *ActivityModule) Start() {
	m.scheduler.Start()
}

// Stop ends periodic stream trimming.
func (m *ActivityModule) Stop(ctx context.Context) {
	m.scheduler.Stop(ctx)
}
