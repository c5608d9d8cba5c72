package main

import (
	"log"
	"os"

	"github.com/asapbuyco-source/Katika-sub000/internal/api"
	"github.com/asapbuyco-source/Katika-sub000/internal/config"
	"github.com/asapbuyco-source/Katika-sub000/internal/database"
	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/random"
	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/scheduler"
	"github.com/asapbuyco-source/Katika-sub000/internal/game"
	"github.com/asapbuyco-source/Katika-sub000/internal/migrations"
	"github.com/asapbuyco-source/Katika-sub000/internal/redis"
	"github.com/asapbuyco-source/Katika-sub000/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Wire the hub and the orchestrator together
	hub := ws.NewHub(cfg)
	store := game.NewStore(db, rdb)
	orch := game.NewOrchestrator(cfg, hub, store, random.New(), scheduler.New())
	hub.Bind(orch)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, hub, orch, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Katika server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
