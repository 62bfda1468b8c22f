package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aura-backend/internal/di"
	"aura-backend/internal/shared/database"
	"aura-backend/internal/shared/httpx"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/redisclient"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}
	var mongoCfg database.Config
	if err := env.Parse(&mongoCfg); err != nil {
		log.Fatalf("Failed to load MongoDB configuration: %v", err)
	}
	var redisCfg redisclient.Config
	if err := env.Parse(&redisCfg); err != nil {
		log.Fatalf("Failed to load Redis configuration: %v", err)
	}
	moduleCfg, err := di.LoadModuleConfigs()
	if err != nil {
		log.Fatalf("Failed to load module configuration: %v", err)
	}

	appLogger := logger.NewLogger().WithComponent("main")
	appLogger.Info("Application configuration loaded")

	container := di.NewContainer(logger.NewLogger())
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.InitializeInfrastructure(ctx, mongoCfg, redisCfg); err != nil {
		appLogger.Fatalf("Failed to initialize infrastructure: %v", err)
	}
	if err := container.InitializeModules(ctx, moduleCfg); err != nil {
		appLogger.Fatalf("Failed to initialize modules: %v", err)
	}
	appLogger.Info("Modules initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Aura API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: httpx.ErrorHandler(appLogger),
	})

	mw := container.AuthModule.GetMiddleware()
	app.Use(recover.New())
	app.Use(mw.RequestID())
	app.Use(mw.RequestContext())
	app.Use(mw.CORS())
	app.Use(mw.SecurityHeaders())

	prometheus := fiberprometheus.New("aura")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
		})
	})

	container.RegisterRoutes(app)
	container.Start()

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
