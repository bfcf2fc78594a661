// cmd/seed wipes the warriors table and loads the sample roster.
package main

import (
	"context"
	"log"
	"time"

	"nird-resistance/config"
	"nird-resistance/database"
	"nird-resistance/services"
	"nird-resistance/utils"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	logger, err := utils.NewLogger(cfg.Development(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := database.Open(cfg.DatabaseURL, database.Options{MaxOpenConns: 1, MaxIdleConns: 1}, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := services.SeedWarriors(ctx, store.DB, services.SampleWarriors, logger); err != nil {
		logger.Fatal("❌ seeding failed", zap.Error(err))
	}
}
