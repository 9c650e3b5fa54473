package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "voting-system/docs"
	"voting-system/internal/config"
	"voting-system/internal/domain/item"
	"voting-system/internal/domain/user"
	"voting-system/internal/domain/vote"
	api "voting-system/internal/http"
	"voting-system/internal/metrics"
	"voting-system/internal/platform/cache"
	"voting-system/internal/platform/database"
	jwtpkg "voting-system/internal/platform/jwt"
	"voting-system/internal/platform/logging"
	"voting-system/internal/repository/postgres"
	"voting-system/internal/worker"
)

// @title           Voting System API
// @version         1.0
// @description     Up/down vote counters with a cache-aside read path
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.Register()
	api.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DB_DSN, logger)
	if err != nil {
		logger.Fatal("Database connect error", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Database migration error", zap.Error(err))
	}

	tier, closeCache := cache.Open(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Timeout:  cfg.CacheTimeout,
	}, logger)
	defer closeCache()

	userRepo := postgres.NewUserRepo(db)
	itemRepo := postgres.NewItemRepo(db)
	voteRepo := postgres.NewVoteRepo(db)

	engine := vote.NewEngine(voteRepo, itemRepo, tier, vote.Options{
		CacheTTL:      cfg.CacheTTL,
		CollectionTTL: cfg.CollectionTTL,
		StoreTimeout:  cfg.StoreTimeout,
		Logger:        logger.Named("votes"),
	})
	lister := vote.NewLister(engine)

	userSvc := user.NewService(userRepo)
	itemSvc := item.NewService(itemRepo, engine, logger.Named("items"))

	if cfg.BackfillOnStart {
		if _, err := engine.InitializeAll(ctx); err != nil {
			logger.Error("Backfill on start failed", zap.Error(err))
		}
	}

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh, time.Minute, logger.Named("stats"))

	router := api.NewRouter(api.Deps{
		Users:            userSvc,
		Items:            itemSvc,
		Votes:            engine,
		Lister:           lister,
		JWT:              jwtpkg.NewManager(cfg.JWTSecret, ""),
		VoteEvents:       voteCh,
		DB:               db,
		VoteRate:         rate.Every(time.Minute / time.Duration(cfg.VoteRatePerMinute)),
		VoteBurst:        cfg.VoteBurst,
		CollectionMaxAge: cfg.CacheTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go statsWorker.Run(ctx)

	go func() {
		logger.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Listen error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
