// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/config"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/database"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/handler"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/imagestore"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/metrics"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/repository"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	logger := log.With().Str("component", "main").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Catalog store ──────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open catalog store")
	}
	defer closeStore()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("catalog store ready")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	var opts []service.Option
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		opts = append(opts, service.WithMetrics(m))
	}
	if cfg.S3.Enabled() {
		up, err := imagestore.NewS3Uploader(ctx, imagestore.Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			PathStyle:     cfg.S3.PathStyle,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure image uploads")
		}
		opts = append(opts, service.WithUploader(up))
		logger.Info().Str("bucket", cfg.S3.Bucket).Msg("image uploads enabled")
	}

	catalogSvc := service.NewCatalogService(store, opts...)
	authSvc := service.NewAuthService()

	// ── 3. Build the router ───────────────────────────────────────────────
	routerCfg := handler.RouterConfig{
		Pandals:    handler.NewPandalHandler(catalogSvc, cfg.MaxBodyBytes),
		Auth:       handler.NewAuthHandler(authSvc),
		CORSOrigin: cfg.CORSOrigin,
	}
	if m != nil {
		routerCfg.Observer = m
		routerCfg.MetricsHandler = m.Handler()
	}

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.NewRouter(routerCfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-serveErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.DevMode {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "pandal-explorer").Logger()
}

// openStore builds the configured catalog store, seeded with the sample
// entries. The returned func releases its resources.
func openStore(ctx context.Context, cfg config.Config) (repository.CatalogStore, func(), error) {
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return repository.NewMemoryStore(model.SeedEntries()), func() {}, nil
	}

	pool, err := database.NewPool(ctx, database.PoolConfig{DSN: cfg.DBDSN})
	if err != nil {
		return nil, nil, err
	}
	if err := bootstrap(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	store := repository.NewPostgresStore(pool)
	if err := store.Seed(ctx, model.SeedEntries()); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("seed catalog: %w", err)
	}
	return store, pool.Close, nil
}

func bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
