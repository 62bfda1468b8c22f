package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aura-backend/internal/activity"
	activityconfig "aura-backend/internal/activity/config"
	"aura-backend/internal/auth"
	authconfig "aura-backend/internal/auth/config"
	"aura-backend/internal/chat"
	chatconfig "aura-backend/internal/chat/config"
	"aura-backend/internal/event"
	eventconfig "aura-backend/internal/event/config"
	"aura-backend/internal/idgen"
	"aura-backend/internal/location"
	locationconfig "aura-backend/internal/location/config"
	"aura-backend/internal/membership"
	"aura-backend/internal/shared/database"
	"aura-backend/internal/shared/eventbus"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/redisclient"
	"aura-backend/internal/shared/validation"
	"aura-backend/internal/travel"
	travelconfig "aura-backend/internal/travel/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// ModuleConfigs groups every module's configuration.
type ModuleConfigs struct {
	Auth     *authconfig.Config
	Chat     *chatconfig.Config
	Event    *eventconfig.Config
	Travel   *travelconfig.Config
	Location *locationconfig.Config
	Activity *activityconfig.Config
}

// LoadModuleConfigs reads every module's configuration from the environment.
func LoadModuleConfigs() (*ModuleConfigs, error) {
	var (
		cfg ModuleConfigs
		err error
	)
	if cfg.Auth, err = authconfig.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Chat, err = chatconfig.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Event, err = eventconfig.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Travel, err = travelconfig.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Location, err = locationconfig.LoadConfig(); err != nil {
		return nil, err
	}
	if cfg.Activity, err = activityconfig.LoadConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Container owns shared infrastructure and the modules built on it.
type Container struct {
	mu sync.RWMutex

	Logger      logger.Logger
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
	Bus         *eventbus.EventBus
	Validator   *validation.Validator

	transactional bool

	IDGenModule      *idgen.IDGenModule
	MembershipModule *membership.MembershipModule
	AuthModule       *auth.AuthModule
	ChatModule       *chat.ChatModule
	EventModule      *event.EventModule
	TravelModule     *travel.TravelModule
	LocationModule   *location.LocationModule
	ActivityModule   *activity.ActivityModule
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Logger: log}
}

// InitializeInfrastructure connects MongoDB and Redis and creates the event bus.
func (c *Container) InitializeInfrastructure(ctx context.Context, mongoCfg database.Config, redisCfg redisclient.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	client, db, err := database.Connect(ctx, mongoCfg, c.Logger)
	if err != nil {
		return err
	}
	c.MongoClient = client
	c.MongoDB = db
	c.transactional = mongoCfg.Transactions

	c.Redis = redisclient.New(redisCfg)
	if err := redisclient.Ping(ctx, c.Redis, 5*time.Second); err != nil {
		return err
	}

	c.Bus = eventbus.New(c.Logger, eventbus.Config{
		Concurrent: true,
		Attempts:   3,
		Backoff:    100 * time.Millisecond,
	})
	return nil
}

// InitializeModules builds every module in dependency order: ids and
// membership first, then the feature modules that use them.
func (c *Container) InitializeModules(ctx context.Context, cfg *ModuleConfigs) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil || c.Redis == nil {
		return fmt.Errorf("infrastructure must be initialized before modules")
	}

	c.Validator = validation.New(cfg.Auth.CountryCode)
	c.IDGenModule = idgen.NewIDGenModule(c.MongoDB, c.Logger)
	c.MembershipModule = membership.NewMembershipModule(c.MongoClient, c.MongoDB, c.transactional, c.Logger)
	ids := c.IDGenModule.Allocator()

	var err error
	c.AuthModule, err = auth.NewAuthModule(ctx, auth.Dependencies{
		DB: c.MongoDB, Redis: c.Redis, IDs: ids, Events: c.Bus, Validator: c.Validator, Logger: c.Logger,
	}, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.ChatModule, err = chat.NewChatModule(ctx, chat.Dependencies{
		DB: c.MongoDB, Membership: c.MembershipModule, IDs: ids, Events: c.Bus, Validator: c.Validator, Logger: c.Logger,
	}, cfg.Chat)
	if err != nil {
		return fmt.Errorf("failed to create chat module: %w", err)
	}

	c.EventModule, err = event.NewEventModule(ctx, event.Dependencies{
		DB: c.MongoDB, Membership: c.MembershipModule, IDs: ids, Events: c.Bus, Validator: c.Validator, Logger: c.Logger,
	}, cfg.Event)
	if err != nil {
		return fmt.Errorf("failed to create event module: %w", err)
	}

	c.TravelModule, err = travel.NewTravelModule(ctx, travel.Dependencies{
		DB: c.MongoDB, IDs: ids, Validator: c.Validator, Logger: c.Logger,
	}, cfg.Travel)
	if err != nil {
		return fmt.Errorf("failed to create travel module: %w", err)
	}

	c.LocationModule, err = location.NewLocationModule(ctx, location.Dependencies{
		DB: c.MongoDB, IDs: ids, Validator: c.Validator, Logger: c.Logger,
	}, cfg.Location)
	if err != nil {
		return fmt.Errorf("failed to create location module: %w", err)
	}

	c.ActivityModule, err = activity.NewActivityModule(activity.Dependencies{
		Redis:     c.Redis,
		Bus:       c.Bus,
		Chats:     c.ChatModule.GetUsecase(),
		Events:    c.EventModule.GetUsecase(),
		Validator: c.Validator,
		Logger:    c.Logger,
	}, cfg.Activity)
	if err != nil {
		return fmt.Errorf("failed to create activity module: %w", err)
	}
	return nil
}

// RegisterRoutes mounts /guest and the token-protected /user tree on router.
func (c *Container) RegisterRoutes(router fiber.Router) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.AuthModule.RegisterGuestRoutes(router.Group("/guest"))

	user := router.Group("/user", c.AuthModule.GetMiddleware().Protect())
	c.AuthModule.RegisterUserRoutes(user)
	c.ChatModule.RegisterRoutes(user)
	c.EventModule.RegisterRoutes(user)
	c.TravelModule.RegisterRoutes(user)
	c.LocationModule.RegisterRoutes(user)
	c.ActivityModule.RegisterRoutes(user)
}

// Start starts background jobs.
func (c *Container) Start() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ActivityModule != nil {
		c.ActivityModule.Start()
	}
}

// HealthCheck pings MongoDB and Redis.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup stops background work and closes connections in reverse order
// of initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.Bus != nil {
		if err := c.Bus.Drain(ctx); err != nil {
			errs = append(errs, fmt.Errorf("event bus did not drain: %w", err))
		}
	}
	if c.ActivityModule != nil {
		c.ActivityModule.Stop(ctx)
	}
	if c.LocationModule != nil {
		c.LocationModule.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		c.Redis = nil
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close runs Cleanup with a 30 second deadline.
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("cleanup errors occurred: %v", err)
		return err
	}
	c.Logger.Info("container resources closed")
	return nil
}
