// internal/pkg/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingRequiredConfig = errors.New("missing required configuration")

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Asynq       AsynqConfig
	AWS         AWSConfig
	Mail        MailConfig
	Maintenance MaintenanceConfig
	Security    SecurityConfig
	Server      ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name          string `required:"true"`
	Environment   string // development, staging, production
	Version       string
	LogLevel      string
	LogFormat     string // json, text
	Debug         bool
	StorageDriver string // postgres, memory
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
	// MigrationPath is a directory on disk; empty uses the migrations embedded in the binary
	MigrationPath string
	RunMigrations bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PoolTimeout  time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	Concurrency          int
	Queues               map[string]int // queue name -> priority
	StrictPriority       bool
	RetryMax             int
	ShutdownTimeout      time.Duration
	HealthCheckInterval  time.Duration
	DelayedTaskCheckTime time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	ArchivePrefix   string
	// ArchiveLocalDir stores receipts on disk instead of S3 when set
	ArchiveLocalDir string
	SecretsName     string
}

// MailConfig holds SMTP configuration for alert e-mails
type MailConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Username        string
	Password        string
	From            string
	AlertRecipients []string
}

// MaintenanceConfig holds scheduling of the due-maintenance scan
type MaintenanceConfig struct {
	DueScanCron    string
	DueScanLockTTL time.Duration
	Timezone       string
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              string `required:"true"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GracefulTimeout   time.Duration
	EnableHealthCheck bool
	TLSEnabled        bool
	TLSCertFile       string
	TLSKeyFile        string
}

// Load loads configuration from the environment and, when CONFIG_FILE is set, a config file.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		logger.Info("config file loaded", slog.String("file", file))
	}
	r := &reader{v: v}

	redisHost := r.str("REDIS_HOST", "localhost")
	redisPort := r.str("REDIS_PORT", "6379")
	redisPassword := r.str("REDIS_PASSWORD", "")

	cfg := &Config{
		App: AppConfig{
			Name:          r.str("APP_NAME", "motofleet-api"),
			Environment:   env,
			Version:       r.str("APP_VERSION", "dev"),
			LogLevel:      r.str("LOG_LEVEL", "debug"),
			LogFormat:     r.str("LOG_FORMAT", "json"),
			Debug:         r.bool("APP_DEBUG", env == "development"),
			StorageDriver: strings.ToLower(r.str("STORAGE_DRIVER", StoragePostgres)),
		},
		Database: DatabaseConfig{
			Host:               r.str("DB_HOST", "localhost"),
			Port:               r.str("DB_PORT", "5432"),
			User:               r.str("DB_USER", "motofleet"),
			Password:           r.str("DB_PASSWORD", "motofleet_dev"),
			Name:               r.str("DB_NAME", "motofleet"),
			SSLMode:            r.str("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(r.int("DB_MAX_CONNECTIONS", 25)),
			MinConnections:     int32(r.int("DB_MIN_CONNECTIONS", 5)),
			MaxConnLifetime:    r.duration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    r.duration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  r.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     r.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			StatementCacheMode: r.str("DB_STATEMENT_CACHE_MODE", "describe"),
			EnableQueryLogging: r.bool("DB_QUERY_LOGGING", env == "development"),
			MigrationPath:      r.str("DB_MIGRATION_PATH", ""),
			RunMigrations:      r.bool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Host:         redisHost,
			Port:         redisPort,
			Password:     redisPassword,
			DB:           r.int("REDIS_DB", 0),
			MaxRetries:   r.int("REDIS_MAX_RETRIES", 3),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     r.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.int("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:  r.duration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Asynq: AsynqConfig{
			RedisAddr:            fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:        redisPassword,
			RedisDB:              r.int("ASYNQ_REDIS_DB", 0),
			Concurrency:          r.int("ASYNQ_CONCURRENCY", 10),
			Queues:               parseQueues(r.str("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:       r.bool("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:             r.int("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout:      r.duration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthCheckInterval:  r.duration("ASYNQ_HEALTH_CHECK_INTERVAL", 30*time.Second),
			DelayedTaskCheckTime: r.duration("ASYNQ_DELAYED_TASK_CHECK", 5*time.Second),
		},
		AWS: AWSConfig{
			Region:          r.str("AWS_REGION", "us-east-1"),
			AccessKeyID:     r.str("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: r.str("AWS_SECRET_ACCESS_KEY", "minioadmin123"),
			S3Bucket:        r.str("AWS_S3_BUCKET", "motofleet-archive"),
			S3Endpoint:      r.str("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    r.bool("AWS_S3_PATH_STYLE", env == "development"),
			ArchivePrefix:   r.str("AWS_S3_ARCHIVE_PREFIX", "maintenances"),
			ArchiveLocalDir: r.str("ARCHIVE_LOCAL_DIR", ""),
			SecretsName:     r.str("AWS_SECRETS_NAME", ""),
		},
		Mail: MailConfig{
			Enabled:         r.bool("MAIL_ENABLED", env == "production"),
			Host:            r.str("SMTP_HOST", "localhost"),
			Port:            r.int("SMTP_PORT", 1025),
			Username:        r.str("SMTP_USERNAME", ""),
			Password:        r.str("SMTP_PASSWORD", ""),
			From:            r.str("MAIL_FROM", "workshop@motofleet.local"),
			AlertRecipients: r.slice("MAIL_ALERT_RECIPIENTS", []string{"workshop@motofleet.local"}),
		},
		Maintenance: MaintenanceConfig{
			DueScanCron:    r.str("MAINTENANCE_DUE_SCAN_CRON", "0 6 * * *"),
			DueScanLockTTL: r.duration("MAINTENANCE_DUE_SCAN_LOCK_TTL", 5*time.Minute),
			Timezone:       r.str("MAINTENANCE_TIMEZONE", "UTC"),
		},
		Security: SecurityConfig{
			RateLimitRequests: r.int("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: r.duration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    r.slice("ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies:    r.slice("TRUSTED_PROXIES", []string{}),
			SecureHeaders:     r.bool("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   r.str("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:              r.str("SERVER_HOST", "0.0.0.0"),
			Port:              r.str("SERVER_PORT", "8080"),
			ReadTimeout:       r.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      r.duration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       r.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:    r.int("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout:   r.duration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			EnableHealthCheck: r.bool("ENABLE_HEALTH_CHECK", true),
			TLSEnabled:        r.bool("TLS_ENABLED", false),
			TLSCertFile:       r.str("TLS_CERT_FILE", ""),
			TLSKeyFile:        r.str("TLS_KEY_FILE", ""),
		},
	}

	if cfg.AWS.SecretsName != "" {
		sm, err := NewAWSSecretsManager(cfg.AWS.Region, cfg.AWS.SecretsName, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cfg.ApplySecrets(ctx, sm); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate runs the basic validator and, in production, the production validator
func (c *Config) Validate() error {
	if err := (&BasicValidator{}).Validate(c); err != nil {
		return err
	}
	if c.IsProduction() {
		return (&ProductionValidator{}).Validate(c)
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns host:port of the Redis server
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// UsesPostgres reports whether repositories are backed by Postgres
func (c *Config) UsesPostgres() bool {
	return c.App.StorageDriver == StoragePostgres
}

// reader resolves keys through viper, which checks the config file and the
// environment, and registers each default as it goes.
type reader struct {
	v *viper.Viper
}

func (r *reader) str(key, defaultValue string) string {
	r.v.SetDefault(key, defaultValue)
	return r.v.GetString(key)
}

func (r *reader) bool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(r.str(key, strconv.FormatBool(defaultValue))); err == nil {
		return b
	}
	return defaultValue
}

func (r *reader) int(key string, defaultValue int) int {
	if i, err := strconv.Atoi(r.str(key, strconv.Itoa(defaultValue))); err == nil {
		return i
	}
	return defaultValue
}

func (r *reader) duration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(r.str(key, defaultValue.String())); err == nil {
		return d
	}
	return defaultValue
}

func (r *reader) slice(key string, defaultValue []string) []string {
	raw := r.str(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
