package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/olla-del-barrio/dish-sync/internal/adapter"
	"github.com/olla-del-barrio/dish-sync/internal/api/rest"
	"github.com/olla-del-barrio/dish-sync/internal/api/server"
	"github.com/olla-del-barrio/dish-sync/internal/asset"
	"github.com/olla-del-barrio/dish-sync/internal/config"
	"github.com/olla-del-barrio/dish-sync/internal/downloader"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/mapper"
	mediaprovider "github.com/olla-del-barrio/dish-sync/internal/media/provider"
	"github.com/olla-del-barrio/dish-sync/internal/notion"
	"github.com/olla-del-barrio/dish-sync/internal/pipeline"
	"github.com/olla-del-barrio/dish-sync/internal/providers/s3"
	"github.com/olla-del-barrio/dish-sync/internal/providers/supabase"
	"github.com/olla-del-barrio/dish-sync/internal/store"
	"github.com/olla-del-barrio/dish-sync/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": config.SERVICE_NAME,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting dish-sync")

	// Initialize clock adapter
	clock := adapter.NewClock()

	// The database connects on first use, so an unreachable database fails runs instead of the process
	var dataStore *store.LazyStore
	if cfg.Database.Configured() {
		dataStore = store.NewLazyStore(func(ctx context.Context) (*gorm.DB, error) {
			db, err := store.Connect(ctx, cfg.Database)
			if err != nil {
				return nil, err
			}
			logger.InfoCtx(ctx, "Connected to database",
				zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
				zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
			)
			return db, nil
		})
		defer func() { _ = dataStore.Close() }()
	}

	// The runner stays nil while required keys are missing; the scheduler then only reports status
	var runner pipeline.Runner
	if cfg.IsComplete() {
		runner, err = newRunner(ctx, cfg, dataStore, clock)
		if err != nil {
			logger.ErrorCtx(ctx, err)
			logger.WarnCtx(ctx, "Sync disabled")
		}
	} else {
		logger.WarnCtx(ctx, "Configuration incomplete, sync disabled", zap.Strings("missing", cfg.MissingKeys()))
	}

	// Initialize scheduler
	scheduler := sweeper.NewScheduler(&sweeper.SchedulerConfig{
		Interval:          cfg.Sync.Interval,
		HeartbeatInterval: cfg.Sync.HeartbeatInterval,
		KeyGroups:         cfg.KeyGroups(),
	}, runner, clock)

	logger.InfoCtx(ctx, "Initialized scheduler",
		zap.Duration("interval", cfg.Sync.Interval),
		zap.Duration("heartbeat_interval", cfg.Sync.HeartbeatInterval),
		zap.Int("worker_pool_size", cfg.Sync.WorkerPoolSize),
	)

	// Start the scheduler in a goroutine
	errChan := make(chan error, 2)
	go func() {
		if err := scheduler.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Start the operator API when enabled
	var apiServer *server.Server
	if cfg.Server.Enabled {
		apiServer = server.New(server.Config{
			Debug:        cfg.Debug,
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ServiceToken: cfg.Server.ServiceToken,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.Sync.RunTimeout + 30*time.Second,
			IdleTimeout:  60 * time.Second,
		}, scheduler, dishReader(dataStore))

		if cfg.Server.ServiceToken == "" {
			logger.WarnCtx(ctx, "Server service token not set, sync trigger is unauthenticated")
		}

		go func() {
			if err := apiServer.Start(); err != nil {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the scheduler and abort any run in flight
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if apiServer != nil {
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err)
		}
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "dish-sync stopped")
}

// dishReader exposes the store to the API, or nothing when no database is configured
func dishReader(dataStore *store.LazyStore) rest.DishReader {
	if dataStore == nil {
		return nil
	}
	return dataStore
}

// newRunner wires the sync pipeline
func newRunner(ctx context.Context, cfg *config.SyncConfig, dataStore store.Store, clock adapter.Clock) (pipeline.Runner, error) {
	provider, err := newMediaProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dl := downloader.NewDownloader(adapter.NewHTTPClient(cfg.Storage.DownloadTimeout))
	migrator := asset.NewMigrator(asset.Config{MaxAssetSize: cfg.Storage.MaxAssetSize}, dl, provider)

	source := notion.NewClient(notion.Config{
		BaseURL:           cfg.Notion.BaseURL,
		Token:             cfg.Notion.Token,
		Version:           cfg.Notion.Version,
		PageSize:          cfg.Notion.PageSize,
		RequestsPerSecond: cfg.Notion.RequestsPerSecond,
	}, adapter.NewHTTPClient(cfg.Notion.HTTPTimeout))

	m := mapper.New(mapper.Config{PlaceholderPriceCents: cfg.Sync.PlaceholderPriceCents})

	return pipeline.NewOrchestrator(pipeline.Config{
		DatabaseID:        cfg.Notion.DatabaseID,
		DefaultProducerID: cfg.Sync.DefaultProducerID,
		WorkerPoolSize:    cfg.Sync.WorkerPoolSize,
		UpsertChunkSize:   cfg.Sync.UpsertChunkSize,
		RunTimeout:        cfg.Sync.RunTimeout,
	}, source, m, dataStore, migrator, clock), nil
}

// newMediaProvider builds the configured object storage provider
func newMediaProvider(ctx context.Context, cfg *config.SyncConfig) (mediaprovider.Provider, error) {
	switch cfg.Storage.Provider {
	case config.STORAGE_PROVIDER_S3:
		client, err := adapter.NewObjectStoreClient(
			cfg.S3.Endpoint,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.Region,
			cfg.S3.UseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create object store client for %s: %w", cfg.S3.Endpoint, err)
		}

		exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to check bucket", zap.Error(err), zap.String("bucket", cfg.Storage.Bucket))
		} else if !exists {
			logger.WarnCtx(ctx, "Bucket does not exist", zap.String("bucket", cfg.Storage.Bucket))
		}

		logger.InfoCtx(ctx, "Using S3-compatible storage", zap.String("endpoint", cfg.S3.Endpoint), zap.String("bucket", cfg.Storage.Bucket))
		return s3.NewMediaProvider(client, &s3.Config{
			Bucket:        cfg.Storage.Bucket,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		}), nil
	default:
		logger.InfoCtx(ctx, "Using Supabase storage", zap.String("bucket", cfg.Storage.Bucket))
		return supabase.NewMediaProvider(adapter.NewHTTPClient(cfg.Storage.DownloadTimeout), &supabase.Config{
			URL:            cfg.Supabase.URL,
			ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
			Bucket:         cfg.Storage.Bucket,
		}), nil
	}
}
