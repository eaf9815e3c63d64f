// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/motofleet-be/internal/adapters/db"
	"github.com/ammerola/motofleet-be/internal/adapters/memory"
	"github.com/ammerola/motofleet-be/internal/adapters/queue"
	redis_a "github.com/ammerola/motofleet-be/internal/adapters/redis_adapter"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/core/services"
	"github.com/ammerola/motofleet-be/internal/handlers"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
	"github.com/ammerola/motofleet-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting motofleet maintenance api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_driver", cfg.App.StorageDriver),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		slogger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database           *db.Database
	redisClient        *redis.Client
	asynqClient        *asynq.Client
	asynqInspector     *asynq.Inspector
	maintenanceHandler *handlers.MaintenanceHandler
	inventoryHandler   *handlers.InventoryHandler
	exportHandler      *handlers.ExportHandler
	healthHandler      *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

// storage bundles whichever backend the configured driver selected
type storage struct {
	motorcycles  ports.MotorcycleRepository
	parts        ports.InventoryPartRepository
	maintenances ports.MaintenanceRepository
	uow          ports.UnitOfWork
	checker      handlers.StoreChecker
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	var (
		store    storage
		enqueuer ports.TaskEnqueuer
	)

	switch cfg.App.StorageDriver {
	case config.StoragePostgres:
		database, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			deps.cleanup()
			return nil, err
		}
		deps.database = database

		store = storage{
			motorcycles:  db.NewMotorcycleRepository(database, logger),
			parts:        db.NewInventoryPartRepository(database, logger),
			maintenances: db.NewMaintenanceRepository(database, logger),
			uow:          db.NewUnitOfWork(database, logger),
			checker:      database,
		}

		logger.Info("connecting to Redis", slog.String("addr", cfg.GetRedisAddr()))
		redisClient, err := redis_a.NewClient(ctx, cfg.Redis)
		if err != nil {
			deps.cleanup()
			return nil, err
		}
		deps.redisClient = redisClient

		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)
		enqueuer = queue.NewAsynqEnqueuer(deps.asynqClient, logger)

	case config.StorageMemory:
		logger.Warn("using in-memory storage; data is lost on restart and background tasks are only logged")
		mem := memory.NewStore()
		store = storage{
			motorcycles:  mem.Motorcycles(),
			parts:        mem.Parts(),
			maintenances: mem.Maintenances(),
			uow:          mem,
			checker:      mem,
		}
		enqueuer = queue.NewLogEnqueuer(logger)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.App.StorageDriver)
	}

	maintenanceService := services.NewMaintenanceService(
		store.maintenances,
		services.NewCreateMaintenanceUseCase(store.motorcycles, store.maintenances, logger),
		services.NewCompleteMaintenanceUseCase(store.uow, enqueuer, logger),
		logger,
	)
	inventoryService := services.NewInventoryService(store.parts, enqueuer, logger)

	deps.maintenanceHandler = handlers.NewMaintenanceHandler(maintenanceService, logger)
	deps.inventoryHandler = handlers.NewInventoryHandler(inventoryService, logger)
	deps.exportHandler = handlers.NewExportHandler(inventoryService, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		store.checker,
		deps.redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.RunMigrations {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return database, nil
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	routerDeps := handlers.RouterDeps{
		Maintenance: deps.maintenanceHandler,
		Inventory:   deps.inventoryHandler,
		Export:      deps.exportHandler,
	}
	if cfg.Server.EnableHealthCheck {
		routerDeps.Health = deps.healthHandler
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handlers.NewRouter(ctx, cfg, routerDeps, logger),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
