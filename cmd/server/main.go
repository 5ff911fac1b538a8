package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/liamwears/vibeflix/internal/cache"
	"github.com/liamwears/vibeflix/internal/config"
	"github.com/liamwears/vibeflix/internal/database"
	"github.com/liamwears/vibeflix/internal/handlers"
	"github.com/liamwears/vibeflix/internal/middleware"
	"github.com/liamwears/vibeflix/internal/router"
	"github.com/liamwears/vibeflix/internal/services"
	"github.com/liamwears/vibeflix/internal/vocabulary"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "vibeflix",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		JSONFormat: cfg.IsProduction(),
	})

	// Check for migrate command
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		down := len(os.Args) > 2 && os.Args[2] == "down"
		if err := runMigrations(cfg, down, logger); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger hclog.Logger) error {
	logger.Info("starting VibeFlix", "env", cfg.Server.Env, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vocab, err := vocabulary.LoadFile(cfg.Discovery.VocabularyFile)
	if err != nil {
		return err
	}

	// Redis backs sessions, the discovery cache and rate limiting whenever it is configured
	var redisClient *database.RedisClient
	if cfg.HasRedis() {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			TLS:      cfg.Redis.TLS,
		}, logger.Named("redis"))
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	var (
		backend database.Backend
		db      *database.DB
	)
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		backend = database.NewRedisBackend(redisClient, cfg.Session.TTL)
	case config.StoragePostgres:
		db, err = database.New(ctx, database.Config{URL: cfg.Database.URL}, logger.Named("postgres"))
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.NewMigrator(db.Pool, logger).Up(ctx); err != nil {
			return err
		}
		backend = database.NewPostgresBackend(db)
	default:
		logger.Warn("using in-memory client storage; state is lost on restart")
		backend = database.NewMemoryBackend()
	}

	var sessions database.Sessions
	if redisClient != nil {
		sessions = database.NewSessionStore(redisClient, cfg.Session.TTL)
	} else {
		sessions = database.NewMemorySessionStore(cfg.Session.TTL)
	}

	tmdb := services.NewTMDBService(services.TMDBConfig{
		APIKey:       cfg.TMDB.APIKey,
		ReadToken:    cfg.TMDB.ReadToken,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      cfg.TMDB.Timeout,
	})
	if !tmdb.HasCredential() {
		logger.Warn("no TMDB credential configured; serving sample movies")
	}

	// Initialize services
	var (
		discoveryCache services.DiscoveryCache
		redisCache     *cache.Cache
	)
	if redisClient != nil {
		redisCache = cache.NewCache(redisClient.Client, cfg.Discovery.CacheTTL)
		discoveryCache = redisCache
	}
	stores := services.NewClientStores(backend, nil, logger)
	recommendations := services.NewRecommendationService(
		tmdb,
		services.NewQueryResolver(vocab, cfg.Discovery.Region),
		discoveryCache,
		logger,
	)
	details := services.NewDetailService(tmdb, logger)

	checks := map[string]handlers.Checker{"storage": stores, "redis": nil}
	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		checks["redis"] = redisClient
		checks["cache"] = redisCache
		rateLimiter = middleware.NewRateLimiter(redisClient.Client, cfg.Discovery.RateLimit, time.Minute, cfg.IsProduction(), logger)
	}

	handler := router.Setup(router.Deps{
		State:           handlers.NewStateHandler(stores, vocab, logger.Named("state")),
		Recommendations: handlers.NewRecommendationHandler(recommendations, stores, services.NewFeeds(), logger.Named("recommendations")),
		Movies:          handlers.NewMovieHandler(details, logger.Named("movies")),
		Watchlist:       handlers.NewWatchlistHandler(stores, logger.Named("watchlist")),
		Health:          handlers.NewHealthHandler(checks),
		Sessions:        middleware.NewSessionMiddleware(sessions, cfg.Session.CookieName, cfg.Session.TTL, cfg.IsProduction(), logger),
		RateLimiter:     rateLimiter,
		Logger:          logger,
	})

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

// runMigrations applies or reverts the client storage schema
func runMigrations(cfg *config.Config, down bool, logger hclog.Logger) error {
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required to run migrations")
	}

	ctx := context.Background()
	db, err := database.New(ctx, database.Config{URL: cfg.Database.URL}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Pool, logger)
	if down {
		return migrator.Down(ctx)
	}
	if err := migrator.Up(ctx); err != nil {
		return err
	}

	logger.Info("migrations completed successfully")
	return nil
}
