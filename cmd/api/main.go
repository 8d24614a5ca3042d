package main

import (
	"context"
	"log"

	"ticket-mockgen/internal/core/cache"
	"ticket-mockgen/internal/core/config"
	"ticket-mockgen/internal/core/logger"
	"ticket-mockgen/internal/core/server"
	"ticket-mockgen/internal/features/mockorders/adapters"
	"ticket-mockgen/internal/features/mockorders/handler"
	"ticket-mockgen/internal/features/mockorders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title Ticket Mockgen API
// @version 1.0
// @description Mock-order generation engine for the ticketing platform: bulk test data creation, progress polling and cleanup.
// @contact.name API Support
// @contact.email support@ticketmockgen.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	// Initialize the Postgres store and verify connectivity.
	store, err := adapters.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		l.Fatal("Database health check failed", zap.Error(err))
	}
	l.Info("Database connection verified")

	// Initialize the Redis progress cache.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis health check failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Initialize the generation engine and its HTTP surface.
	generator := service.NewGenerator(store, cfg.Generator.FeeEnvironment, cfg.Generator.BatchSize)
	progressSink := adapters.NewCacheProgressSink(redisCache)
	mockOrderHandler := handler.NewMockOrderHandler(generator, progressSink)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/events/:id/mock-orders", mockOrderHandler.StartGeneration)
	srv.App.Post("/events/:id/mock-orders/sync", mockOrderHandler.RunSync)
	srv.App.Delete("/events/:id/mock-orders", mockOrderHandler.DeleteTestData)
	srv.App.Get("/mock-orders/runs/:runID", mockOrderHandler.GetProgress)
	srv.App.Get("/healthz", func(c *fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
		if err := redisCache.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "redis": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
