package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nird-resistance/config"
	"nird-resistance/database"
	"nird-resistance/handlers"
	"nird-resistance/services"
	"nird-resistance/utils"
	"nird-resistance/workers"

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

	store, err := database.Open(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	warriorService := services.NewWarriorService(store.DB, logger)
	queryService := services.NewQueryService(store.DB, services.CampaignGoals(cfg.Goals))

	var captcha *services.CaptchaService
	if cfg.CaptchaSecret != "" {
		captcha = services.NewCaptchaService(cfg.CaptchaSecret, cfg.CaptchaTTL)
		warriorService.Captcha = captcha
		logger.Info("🔐 captcha verification enabled", zap.Duration("ttl", cfg.CaptchaTTL))
	}

	health := workers.NewHealthMonitor(store, logger)
	schedule := workers.Schedule{
		Health:         health,
		HealthInterval: cfg.HealthInterval,
		BackupInterval: cfg.Backup.Interval,
	}
	if cfg.Backup.Enabled() {
		r2, err := utils.NewR2Client(ctx, cfg.Backup.AccountID, cfg.Backup.AccessKeyID, cfg.Backup.AccessKeySecret, cfg.Backup.Bucket)
		if err != nil {
			logger.Fatal("failed to initialize R2 client", zap.Error(err))
		}
		schedule.Backup = workers.NewRosterBackup(store.DB, r2, logger)
	} else {
		logger.Warn("⚠️  R2 credentials not set, roster backup disabled")
	}

	scheduler, err := workers.StartScheduler(ctx, schedule, logger)
	if err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	app := handlers.NewApp(handlers.Deps{
		Warriors:       warriorService,
		Queries:        queryService,
		Captcha:        captcha,
		Health:         health,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	logger.Info("✅ Server running", zap.String("addr", "http://localhost:"+cfg.Port))
	logger.Info("✅ CORS configured", zap.Strings("origins", cfg.AllowedOrigins))

	<-ctx.Done()
	logger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}
}
