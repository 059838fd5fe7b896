package main

import (
	"fmt"
	"os"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/config"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/database"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/router"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/validator"

	_ "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/docs" // Import swagger docs
)

// @title           Park Pro Finance API
// @version         1.0
// @description     Budgeting, spend authorization, funding requests and audits for a network of national parks.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	if cfg.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set; pipeline endpoints are disabled")
	}

	engine := router.New(dbManager.DB(), router.Options{
		PipelineAPIKey: cfg.PipelineAPIKey,
		Swagger:        true,
	})

	log.Infof("Starting Park Pro finance server on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return engine.Run(":" + cfg.Port)
}
