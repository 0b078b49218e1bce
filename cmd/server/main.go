package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mathieu-neron/tubestats/internal/config"
	"github.com/mathieu-neron/tubestats/internal/db"
	"github.com/mathieu-neron/tubestats/internal/handler"
	"github.com/mathieu-neron/tubestats/internal/metrics"
	"github.com/mathieu-neron/tubestats/internal/middleware"
	"github.com/mathieu-neron/tubestats/internal/repository"
	"github.com/mathieu-neron/tubestats/internal/router"
	"github.com/mathieu-neron/tubestats/internal/service"
	"github.com/mathieu-neron/tubestats/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "tubestats")
	logger := middleware.Logger

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	yt, err := youtube.NewClient(cfg.YouTubeAPIKey, youtube.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create YouTube client")
	}

	backend, rdb := newCacheBackend(ctx, cfg, logger)
	cache := service.NewFetchCache(backend, service.WithCacheLogger(logger))
	defer cache.Close()

	repo, pool := newHistoryRepo(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	metrics.Init(prometheus.DefaultRegisterer, pool)

	history := service.NewHistoryStore(repo, logger)
	svc := service.NewAnalysisService(service.NewCachedSource(yt, cache), history, logger)

	if cfg.RefreshInterval > 0 {
		worker := service.NewHistoryRefreshWorker(svc, cfg.RefreshInterval, cfg.MaxResults, logger)
		go worker.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      "tubestats API",
		ServerHeader: "tubestats",
	})

	limiters := router.DefaultLimiters()
	defer limiters.Stop()

	router.Setup(app, &router.Handlers{
		Analysis: handler.NewAnalysisHandler(svc, cfg.MaxResults),
		History:  handler.NewHistoryHandler(svc),
		Export:   handler.NewExportHandler(svc, cfg.MaxResults),
		Health:   handler.NewHealthHandler(pool, rdb),
	}, limiters, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("history_backend", cfg.HistoryBackend).
		Str("cache_backend", cfg.CacheBackend).
		Msg("tubestats starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// newCacheBackend picks the fetch cache backend. An unreachable Redis falls
// back to the in-process cache rather than failing startup.
func newCacheBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (service.CacheBackend, *redis.Client) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		rb, err := service.NewRedisBackend(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info().Msg("fetch cache: redis")
			return rb, rb.Client()
		}
		logger.Warn().Err(err).Msg("fetch cache: redis unavailable, using memory")
	}

	mb, err := service.NewMemoryBackend(0)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create memory cache")
	}
	return mb, nil
}

// newHistoryRepo picks where channel history is persisted.
func newHistoryRepo(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.HistoryRepo, *pgxpool.Pool) {
	if cfg.HistoryBackend != config.HistoryBackendPostgres {
		logger.Info().Str("path", cfg.HistoryPath).Msg("history: file")
		return repository.NewFileHistoryRepo(cfg.HistoryPath), nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	repo := repository.NewPgHistoryRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create history schema")
	}
	logger.Info().Msg("history: postgres")
	return repo, pool
}
