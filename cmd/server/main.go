package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubportal/internal/adapters/http/middleware"
	"clubportal/internal/adapters/http/routes"
	"clubportal/internal/adapters/persistence/models"
	"clubportal/internal/adapters/pubsub"
	"clubportal/internal/adapters/storage"
	"clubportal/internal/config"
	"clubportal/internal/core/policy"
	"clubportal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "clubportal/docs" // Swagger docs
)

// @title Club Portal API
// @version 1.0
// @description Club portal API: accounts, role requests, partner directory and events

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the bootstrap admin
	if err := config.NewSeeder(db, cfg.Seed).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin account: %v", err)
	}

	// Object storage
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Printf("✅ Storage ready [%s]", store.Name())

	// Access policy
	engine, err := policy.Default()
	if err != nil {
		log.Fatalf("❌ Failed to load access policy: %v", err)
	}

	// Session hub, relayed through Redis when configured
	hub := services.NewSessionHub()
	deps := routes.NewDependencies(db, cfg, engine, store, hub)

	if cfg.Redis.URL != "" {
		client, err := pubsub.Connect(cfg.Redis.URL)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, session events stay local: %v", err)
		} else {
			defer client.Close()
			relay := pubsub.NewRedisRelay(client, cfg.Redis.Channel)
			hub.SetRelay(relay)
			deps.Checks = append(deps.Checks, relay)
			go func() {
				if err := relay.Run(ctx, hub.Deliver); err != nil {
					log.Printf("❌ Session relay stopped: %v", err)
				}
			}()
		}
	}

	// Start cron jobs (orphan upload sweep, token cleanup)
	cronService, err := services.NewCronService(cfg.Sweep.Schedule, deps.Uploads, deps.Auth)
	if err != nil {
		log.Fatalf("❌ Failed to schedule cron jobs: %v", err)
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Club Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(cfg.Storage.MaxUploadBytes())*2 + 1024*1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, deps)

	// Graceful shutdown
	go gracefulShutdown(app, cancel)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, cancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
