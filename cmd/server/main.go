package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/doctranslate/internal/config"
	"github.com/JonMunkholm/doctranslate/internal/core"
	_ "github.com/JonMunkholm/doctranslate/internal/core/kinds" // Register all document kinds
	"github.com/JonMunkholm/doctranslate/internal/database"
	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/translate"
	"github.com/JonMunkholm/doctranslate/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"translate_backend", cfg.Translate.Backend,
		"cache_backend", cfg.Cache.Backend,
		"transform_max_concurrent", cfg.Transform.MaxConcurrent,
		"history_enabled", cfg.HistoryEnabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()

	// Translation cache
	cache, closeCache, err := translate.NewCache(ctx, translate.CacheOptions{
		Backend:   cfg.Cache.Backend,
		RedisURL:  cfg.Cache.RedisURL,
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		slog.Error("failed to create translation cache", "error", err)
		os.Exit(1)
	}
	defer closeCache()

	// Translation backend
	backend, err := translate.NewBackend(ctx, translate.BackendOptions{
		Name:          cfg.Translate.Backend,
		DeepLAPIKey:   cfg.Translate.DeepLAPIKey,
		DeepLURL:      cfg.Translate.DeepLURL,
		OpenAIAPIKey:  cfg.Translate.OpenAIAPIKey,
		OpenAIModel:   cfg.Translate.OpenAIModel,
		OpenAIBaseURL: cfg.Translate.OpenAIBaseURL,
		GeminiAPIKey:  cfg.Translate.GeminiAPIKey,
		GeminiModel:   cfg.Translate.GeminiModel,
	})
	if err != nil {
		slog.Error("failed to create translation backend", "error", err)
		os.Exit(1)
	}

	client := translate.NewClient(backend, cache, translate.Config{
		CallTimeout:     cfg.Translate.CallTimeout,
		MaxRetries:      cfg.Translate.MaxRetries,
		RetryInterval:   cfg.Translate.RetryInterval,
		BreakerFailures: uint32(cfg.Translate.BreakerFailures),
		BreakerTimeout:  cfg.Translate.BreakerTimeout,
	})
	slog.Info("translation backend ready", "backend", client.Backend())

	// Job history: PostgreSQL when configured, otherwise in process
	var jobs core.JobStore
	if cfg.HistoryEnabled() {
		pool, err := database.Connect(ctx, database.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, pool); err != nil {
				slog.Error("failed to apply migrations", "error", err)
				os.Exit(1)
			}
		}
		jobs = core.NewPgJobStore(pool)
	} else {
		jobs = core.NewMemoryJobStore(core.DefaultMemoryJobCapacity)
	}

	// Create service with config
	service, err := core.NewService(client, jobs, core.ServiceConfig{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxPartSize:   cfg.Upload.MaxPartSize,
		Timeout:       cfg.Transform.Timeout,
		MaxConcurrent: cfg.Transform.MaxConcurrent,
		MaxWaitTime:   cfg.Transform.MaxWaitTime,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// Log registered kinds
	for _, kind := range service.ListKinds() {
		slog.Debug("document kind registered", "kind", kind.Key, "extensions", kind.Extensions)
	}
	slog.Info("document kinds registered", "count", core.KindCount())

	// Create server with config
	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Prune job history with config values
	go service.StartHistoryPruner(jobCtx, core.HistoryPruneConfig{
		RetentionDays: cfg.History.RetentionDays,
		CheckInterval: cfg.History.CheckInterval,
	})

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for running transforms to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for transforms to complete", "active", status.Active)
			if err := service.WaitForTransforms(shutdownCtx); err != nil {
				slog.Warn("transforms did not complete in time", "error", err)
			} else {
				slog.Info("all transforms completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	<-shutdownDone
	slog.Info("server stopped")
}
