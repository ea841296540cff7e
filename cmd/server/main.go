package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/training/practice/internal/cache"
	"github.com/training/practice/internal/client"
	"github.com/training/practice/internal/config"
	"github.com/training/practice/internal/database"
	"github.com/training/practice/internal/handler"
	"github.com/training/practice/internal/logger"
	"github.com/training/practice/internal/middleware"
	"github.com/training/practice/internal/pagination"
	"github.com/training/practice/internal/repository"
	"github.com/training/practice/internal/router"
	"github.com/training/practice/internal/service"
	"github.com/training/practice/internal/validator"
	"github.com/training/practice/migrations"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Practice API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Apply Migrations ──────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := migrations.Apply(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	txManager := repository.NewTxManager(pool)
	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	policy := pagination.Policy{
		DefaultSize: cfg.Pagination.DefaultPageSize,
		MaxSize:     cfg.Pagination.MaxPageSize,
	}
	userCache := cache.NewUserCache(rdb, cfg.CacheTTL)
	postmanClient := client.NewPostmanClient(cfg.PostmanBaseURL, cfg.PostmanTimeout, log)

	userService := service.NewUserService(userRepo, txManager, userCache, policy, log)
	subjectService := service.NewSubjectService(subjectRepo, txManager, userCache, policy, log)
	postmanService := service.NewPostmanService(postmanClient, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	loggingEnabled := &atomic.Bool{}
	loggingEnabled.Store(cfg.LogRequests)

	handlers := &router.Handlers{
		User:    handler.NewUserHandler(userService),
		Subject: handler.NewSubjectHandler(subjectService),
		Postman: handler.NewPostmanHandler(postmanService),
		Config:  handler.NewConfigHandler(cfg, loggingEnabled, log),
		Health:  handler.NewHealthHandler(pool, rdb, log),
	}

	externalLimiter := middleware.NewRateLimiter(cfg.ExternalRateLimitRPS, cfg.ExternalRateLimitBurst)
	defer externalLimiter.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg, router.Options{
		Log:             log,
		LoggingEnabled:  loggingEnabled,
		ExternalLimiter: externalLimiter,
	})

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
