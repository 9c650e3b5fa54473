// Command backfill creates zeroed vote counters for every published post that
// does not have one yet. It is safe to run repeatedly.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"voting-system/internal/config"
	"voting-system/internal/domain/vote"
	"voting-system/internal/platform/cache"
	"voting-system/internal/platform/database"
	"voting-system/internal/platform/logging"
	"voting-system/internal/repository/postgres"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Backfill failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DB_DSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Created counters invalidate cached listings, so use the shared tier.
	tier, closeCache := cache.Open(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Timeout:  cfg.CacheTimeout,
	}, logger)
	defer closeCache()

	itemRepo := postgres.NewItemRepo(db)
	engine := vote.NewEngine(postgres.NewVoteRepo(db), itemRepo, tier, vote.Options{
		CacheTTL:      cfg.CacheTTL,
		CollectionTTL: cfg.CollectionTTL,
		StoreTimeout:  cfg.StoreTimeout,
		Logger:        logger,
	})

	created, err := engine.InitializeAll(ctx)
	if err != nil {
		return fmt.Errorf("initialize counters (%d created before failure): %w", created, err)
	}
	logger.Info("Backfill complete", zap.Int("created", created))
	return nil
}
