// Команда storefront запускает HTTP API состояния витрины и применяет миграции хранилища снимков.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gogetmarket/internal/storefront/adapters/apiboundary"
	httpadapter "gogetmarket/internal/storefront/adapters/http"
	"gogetmarket/internal/storefront/adapters/scheduler"
	"gogetmarket/internal/storefront/adapters/services"
	"gogetmarket/internal/storefront/adapters/storage"
	"gogetmarket/internal/storefront/config"
	"gogetmarket/internal/storefront/metrics"
	portstorage "gogetmarket/internal/storefront/ports/storage"
	"gogetmarket/internal/storefront/resilience"
	"gogetmarket/migrations"
	"gogetmarket/pkg/db/postgres"
	"gogetmarket/pkg/db/redis"
	"gogetmarket/pkg/logger"
	"gogetmarket/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "STOREFRONT_LOGGER_MODE"
	EnvLoggerLevel = "STOREFRONT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrOpenStorage          = "failed to open snapshot storage"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrMigrationsBackend    = "migrations require the postgres storage backend"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "storefront service started"
	LogServiceShutdownDone = "storefront service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingStorage      = "closing snapshot storage"
	LogUnloadingClients    = "unloading client stores"
	LogInitStorage         = "initializing snapshot storage"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogRunningMigrations   = "running storage migrations"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobal(log)

	ctx := context.Background()

	exitCode := 0
	func() {
		defer syncLogger()

		if err := newRootCommand().ExecuteContext(ctx); err != nil {
			logger.Log(ctx).Error(ctx, "command failed", zap.Error(err))
			exitCode = 1
		}
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func syncLogger() {
	if err := logger.Log(context.Background()).Sync(); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
			return
		}
		if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
			panic(writeErr)
		}
	}
}

func newRootCommand() *cobra.Command {
	var envPath string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront client state service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envPath, "env-file", "", "path to an optional .env file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront state API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), envPath)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply snapshot storage migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrateUp(cmd.Context(), envPath)
		},
	}

	root.AddCommand(serve, migrate)
	root.RunE = serve.RunE
	return root
}

// loadConfig загружает конфигурацию и заменяет глобальный логгер настроенным.
func loadConfig(ctx context.Context, envPath string) (*config.Config, error) {
	cfg, err := config.Load(ctx, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobal(finalLogger)
	return cfg, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (portstorage.SnapshotStorage, shutdown.Hook, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.Redis.Client())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrOpenStorage, err)
		}
		store := storage.NewRedisStorage(client, cfg.Storage.TTL)
		return store, func(context.Context) error { return store.Close() }, nil
	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Postgres.Pool())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrOpenStorage, err)
		}
		store := storage.NewPostgresStorage(db.Pool(), cfg.Storage.TTL)
		return store, func(ctx context.Context) error {
			db.Close(ctx)
			return nil
		}, nil
	default:
		store := storage.NewMemoryStorage()
		return store, func(context.Context) error { return store.Close() }, nil
	}
}

func serve(ctx context.Context, envPath string) error {
	cfg, err := loadConfig(ctx, envPath)
	if err != nil {
		return err
	}
	log := logger.Log(ctx)

	log.Info(ctx, LogServiceStarted,
		zap.String("log_level", cfg.Logging.Level),
		zap.String("storage_backend", string(cfg.Storage.Backend)),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	log.Info(ctx, LogInitStorage)
	store, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	backend := apiboundary.NewResilience("backend", cfg.Resilience.Breaker(), cfg.Resilience.Retry())
	backend.Breaker().OnStateChange(func(name string, state resilience.CircuitState) {
		m.BreakerStateChanged(name, state)
	})

	clients := httpadapter.NewRegistry(httpadapter.RegistryDeps{
		Storage:    store,
		Scheduler:  scheduler.NewClock(),
		Inspector:  services.NewJWTInspector(),
		Resilience: backend,
		Metrics:    m,
		Settings:   cfg.Stores.Settings(),
		KeyPrefix:  cfg.Storage.KeyPrefix,
		Logger:     log,
	})

	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	if idle := cfg.Stores.IdleClientTimeout; idle > 0 {
		go clients.RunEviction(evictCtx, idle/2, idle)
	}

	log.Info(ctx, LogInitHTTPServer)
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	routerDeps := httpadapter.RouterDeps{
		Handlers: httpadapter.NewHandlers(clients),
		Metrics:  m,
	}
	if cfg.Metrics.Enabled {
		routerDeps.Gatherer = registry
		routerDeps.MetricsPath = cfg.Metrics.Path
	}
	httpadapter.SetupRouter(app, routerDeps)

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		}
	}()

	shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			if err := app.ShutdownWithContext(ctx); err != nil {
				return fmt.Errorf("shutting down HTTP server: %w", err)
			}

			stopEviction()
			log.Info(ctx, LogUnloadingClients)
			if err := clients.Close(ctx); err != nil {
				return fmt.Errorf("unloading clients: %w", err)
			}

			log.Info(ctx, LogClosingStorage)
			return closeStorage(ctx)
		},
	)

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}

func migrateUp(ctx context.Context, envPath string) error {
	cfg, err := loadConfig(ctx, envPath)
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != config.BackendPostgres {
		return errors.New(ErrMigrationsBackend)
	}

	logger.Log(ctx).Info(ctx, LogRunningMigrations)
	return postgres.MigrateFS(ctx, migrations.Storefront, migrations.StorefrontDir, cfg.Postgres.Pool().DSN())
}
