// Streamflix - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamflix

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/streamflix/internal/api"
	"github.com/tomtom215/streamflix/internal/config"
	"github.com/tomtom215/streamflix/internal/events"
	"github.com/tomtom215/streamflix/internal/logging"
	"github.com/tomtom215/streamflix/internal/media"
	"github.com/tomtom215/streamflix/internal/supervisor"
	"github.com/tomtom215/streamflix/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("ratings_path", cfg.Data.RatingsPath).
		Str("content_path", cfg.Data.ContentPath).
		Msg("Starting Streamflix")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := initEngine(ctx, cfg, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	// Media cache: memory, plus BadgerDB when a cache path is configured
	mediaCache, badgerStore, err := media.NewCache(cfg.Media)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Media.CachePath).Msg("Failed to open media cache")
	}
	defer func() {
		if err := mediaCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing media cache")
		}
	}()
	mediaService := media.NewService(cfg.Media, mediaCache)
	logging.Info().
		Bool("enabled", mediaService.Enabled()).
		Str("tmdb_key", logging.MaskSecret(cfg.Media.TMDBAPIKey)).
		Str("youtube_key", logging.MaskSecret(cfg.Media.YouTubeAPIKey)).
		Msg("Media lookup configured")

	// Bridges zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if badgerStore != nil {
		tree.AddDataService(services.NewCacheGCService(badgerStore, services.CacheGCConfig{}, logging.WithComponent("cache")))
		logging.Info().Str("path", cfg.Media.CachePath).Msg("Persistent media cache enabled")
	}

	// A nil *events.Bus must not become a non-nil Publisher.
	var publisher events.Publisher
	if bus := initEvents(cfg, tree); bus != nil {
		publisher = bus
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
	}

	handler, err := api.NewHandler(api.Dependencies{
		Engine:  engine,
		Config:  cfg,
		Media:   mediaService,
		Events:  publisher,
		Version: version,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh yields a single value and is never closed: receive it once.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = supervisor.Wait(errCh)
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
