// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/motofleet-be/internal/adapters/db"
	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations.
// The test is skipped under -short or when Docker is unavailable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_motofleet",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_motofleet",
		SSLMode:            "disable",
		MaxConnections:     10,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(context.Background(), migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-process Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration running on the memory store
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:          "motofleet-test",
			Environment:   "test",
			Version:       "test",
			LogLevel:      "debug",
			LogFormat:     "text",
			Debug:         true,
			StorageDriver: config.StorageMemory,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_motofleet",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			PoolSize: 10,
		},
		Maintenance: config.MaintenanceConfig{
			DueScanCron:    "0 6 * * *",
			DueScanLockTTL: time.Minute,
			Timezone:       "UTC",
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 1000,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestMotorcycle creates a test motorcycle
func CreateTestMotorcycle(overrides ...func(*domain.Motorcycle)) *domain.Motorcycle {
	now := time.Now().UTC()
	moto := &domain.Motorcycle{
		ID:           uuid.New(),
		Brand:        "Yamaha",
		Model:        "MT-07",
		Year:         2022,
		VIN:          "JYARM" + uuid.NewString()[:12],
		LicensePlate: "AB-123-CD",
		Mileage:      12000,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, override := range overrides {
		override(moto)
	}

	return moto
}

// CreateTestPart creates a test inventory part
func CreateTestPart(overrides ...func(*domain.InventoryPart)) *domain.InventoryPart {
	now := time.Now().UTC()
	part := &domain.InventoryPart{
		ID:                uuid.New(),
		Name:              "Oil filter HF204",
		Category:          domain.CategoryOilFilter,
		ReferenceNumber:   "HF204-" + uuid.NewString()[:8],
		CurrentStock:      20,
		MinStockThreshold: 5,
		UnitPrice:         decimal.RequireFromString("12.50"),
		MotorcycleModels:  []string{"MT-07"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for _, override := range overrides {
		override(part)
	}

	return part
}

// CreateTestMaintenance creates a scheduled preventive maintenance on motorcycleID
func CreateTestMaintenance(motorcycleID uuid.UUID, overrides ...func(*domain.Maintenance)) *domain.Maintenance {
	now := time.Now().UTC()
	m := &domain.Maintenance{
		ID:                   uuid.New(),
		MotorcycleID:         motorcycleID,
		Type:                 domain.MaintenancePreventive,
		Status:               domain.StatusScheduled,
		ScheduledDate:        now.Truncate(time.Second).Add(24 * time.Hour),
		MileageAtMaintenance: 12000,
		ReplacedParts:        []domain.ReplacedPart{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	for _, override := range overrides {
		override(m)
	}

	return m
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"maintenances",
		"inventory_parts",
		"motorcycles",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}
