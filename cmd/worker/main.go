// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/motofleet-be/internal/adapters/db"
	"github.com/ammerola/motofleet-be/internal/adapters/mail"
	redis_a "github.com/ammerola/motofleet-be/internal/adapters/redis_adapter"
	"github.com/ammerola/motofleet-be/internal/adapters/storage"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
	"github.com/ammerola/motofleet-be/internal/pkg/logger"
	"github.com/ammerola/motofleet-be/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	if !cfg.UsesPostgres() {
		slogger.Error("the worker needs shared storage; set STORAGE_DRIVER=postgres",
			slog.String("storage_driver", cfg.App.StorageDriver))
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Maintenance.Timezone)
	if err != nil {
		slogger.Error("invalid maintenance timezone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := initDatabase(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient, err := redis_a.NewClient(ctx, cfg.Redis)
	if err != nil {
		slogger.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	archive, err := initArchiveStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize archive storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	motorcycles := db.NewMotorcycleRepository(database, slogger)
	parts := db.NewInventoryPartRepository(database, slogger)
	maintenances := db.NewMaintenanceRepository(database, slogger)
	mailer := mail.NewSMTPMailer(cfg.Mail, slogger)
	locker := redis_a.NewLocker(redisClient, slogger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:              cfg.Asynq.Concurrency,
			Queues:                   cfg.Asynq.Queues,
			StrictPriority:           cfg.Asynq.StrictPriority,
			ErrorHandler:             asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:           exponentialBackoff,
			ShutdownTimeout:          cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc:          healthCheck,
			HealthCheckInterval:      cfg.Asynq.HealthCheckInterval,
			DelayedTaskCheckInterval: cfg.Asynq.DelayedTaskCheckTime,
			Logger:                   newAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()

	lowStock := workers.NewLowStockProcessor(mailer, cfg.Mail.AlertRecipients, slogger)
	mux.HandleFunc(workers.TypeLowStockAlert, lowStock.ProcessLowStockAlert)

	archiver := workers.NewArchiveProcessor(maintenances, parts, archive, cfg.AWS.ArchivePrefix, slogger)
	mux.HandleFunc(workers.TypeMaintenanceCompleted, archiver.ProcessMaintenanceCompleted)

	dueScan := workers.NewDueScanProcessor(maintenances, motorcycles, locker, mailer, workers.DueScanConfig{
		Recipients: cfg.Mail.AlertRecipients,
		LockTTL:    cfg.Maintenance.DueScanLockTTL,
		Location:   location,
	}, slogger)
	mux.HandleFunc(workers.TypeDueMaintenanceScan, dueScan.ProcessDueScan)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: location,
		Logger:   newAsynqLogger(slogger),
	})
	scanTask, err := workers.NewDueScanTask(workers.DueScanPayload{})
	if err != nil {
		slogger.Error("failed to build due scan task", slog.String("error", err.Error()))
		os.Exit(1)
	}
	entryID, err := scheduler.Register(cfg.Maintenance.DueScanCron, scanTask)
	if err != nil {
		slogger.Error("failed to register due scan",
			slog.String("cron", cfg.Maintenance.DueScanCron),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("due scan scheduled",
		slog.String("entry_id", entryID),
		slog.String("cron", cfg.Maintenance.DueScanCron),
		slog.String("timezone", location.String()))

	if err := srv.Start(mux); err != nil {
		slogger.Error("failed to start worker server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		srv.Shutdown()
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	<-ctx.Done()
	slogger.Info("shutdown signal received")

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Database, error) {
	dbConfig := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     10, // Fewer connections for worker
		MinConnections:     2,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}

	return db.NewDatabase(ctx, dbConfig, logger)
}

// initArchiveStorage prefers a local directory when one is configured, S3 otherwise
func initArchiveStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ObjectStorage, error) {
	if cfg.AWS.ArchiveLocalDir != "" {
		logger.Info("archiving receipts to local directory", slog.String("dir", cfg.AWS.ArchiveLocalDir))
		return storage.NewLocalStorage(cfg.AWS.ArchiveLocalDir, logger), nil
	}

	s3, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
	}
	return s3, nil
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retry", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
