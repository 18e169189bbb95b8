package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shopmirror/storesync/internal/api"
	"github.com/shopmirror/storesync/internal/config"
	"github.com/shopmirror/storesync/internal/crypto"
	"github.com/shopmirror/storesync/internal/repository/postgres"
	"github.com/shopmirror/storesync/internal/sync"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Token cipher for store credentials
	cipher, err := crypto.NewTokenCipher(cfg.Encryption.Key)
	if err != nil {
		logger.Fatal("Invalid encryption key", zap.Error(err))
	}

	// Repositories and sync runner
	repos := postgres.NewRepositories(db, logger)
	runner := sync.NewRunner(repos, cipher, logger)

	// Router
	router := api.NewRouter(cfg, repos, cipher, runner, logger)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment))

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
