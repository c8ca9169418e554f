package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackclub/cutout/internal/config"
	"github.com/hackclub/cutout/internal/db"
	httphandler "github.com/hackclub/cutout/internal/http"
	"github.com/hackclub/cutout/internal/imageproc"
	"github.com/hackclub/cutout/internal/images"
	"github.com/hackclub/cutout/internal/removebg"
	"github.com/hackclub/cutout/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx := context.Background()

	// Load configuration
	cfg := config.Load()
	logger.Info().Msg("starting cutout server")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if !cfg.RemoveBGConfigured() {
		logger.Warn().Msg("REMOVEBG_API_KEY is not set, background removal requests will fail")
	}

	// Database
	if cfg.DatabaseMigrate {
		applied, err := db.Migrate(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to run database migrations")
		}
		logger.Info().Bool("applied", applied).Msg("database migrations checked")
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Object storage
	store, localDir, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to initialize object storage")
	}

	// Mirroring backend
	mirrorer := imageproc.New(cfg.MirrorBackend)
	if !mirrorer.Available() {
		logger.Warn().Str("backend", cfg.MirrorBackend).Msg("image mirroring unavailable, flip requests will return unflipped images")
	}

	remover := removebg.NewClient(cfg.RemoveBGAPIKey, cfg.RemoveBGEndpoint, cfg.RemoveBGTimeout)

	imageService := images.NewService(images.NewPostgresRepository(pool), store, cfg.StoragePrefix, logger)

	server := httphandler.NewServer(
		cfg,
		logger,
		pool,
		mirrorer,
		images.NewHandler(imageService, cfg.UploadMaxBytes, logger),
		removebg.NewHandler(remover, mirrorer, cfg.RemoveBGMaxBytes, logger),
	)
	if localDir != "" {
		server.ServeLocalFiles(localDir)
	}

	routesCtx, stopRoutes := context.WithCancel(ctx)
	defer stopRoutes()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Routes(routesCtx),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   cfg.RemoveBGTimeout + 60*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Str("mirror", mirrorer.Name()).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	stopRoutes()
	logger.Info().Msg("server exited")
}

// newObjectStore builds the driver selected by STORAGE_DRIVER. The returned
// directory is non-empty only for the local driver, whose files the API serves itself.
func newObjectStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.ObjectStore, string, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMinio:
		client, err := storage.NewMinioClient(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBaseURL,
			cfg.MinioUseSSL,
		)
		if err != nil {
			return nil, "", err
		}
		created, err := client.EnsureBucket(ctx)
		if err != nil {
			return nil, "", err
		}
		if created {
			logger.Info().Str("bucket", cfg.StorageBucket).Msg("created storage bucket")
		}
		return client, "", nil

	case config.StorageDriverLocal:
		store, err := storage.NewLocalStore(cfg.LocalStorageDir, cfg.StoragePublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil

	default:
		client, err := storage.NewR2Client(
			ctx,
			cfg.R2AccessKeyID,
			cfg.R2SecretAccessKey,
			cfg.StorageBucket,
			cfg.R2S3Endpoint,
			cfg.StoragePublicBaseURL,
		)
		if err != nil {
			return nil, "", err
		}
		return client, "", nil
	}
}
