// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	// Validate required fields using reflection
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	switch cfg.App.StorageDriver {
	case StoragePostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("%w: database host and name", ErrMissingRequiredConfig)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.App.StorageDriver)
	}

	// Validate numeric ranges
	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max_connections must be >= min_connections")
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}

	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	if cfg.Maintenance.DueScanCron == "" {
		return fmt.Errorf("%w: maintenance due scan cron", ErrMissingRequiredConfig)
	}
	if _, err := time.LoadLocation(cfg.Maintenance.Timezone); err != nil {
		return fmt.Errorf("invalid maintenance timezone %q: %w", cfg.Maintenance.Timezone, err)
	}

	if cfg.Mail.Enabled && len(cfg.Mail.AlertRecipients) == 0 {
		return fmt.Errorf("%w: mail alert recipients", ErrMissingRequiredConfig)
	}

	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	// Check for placeholder values
	if strings.Contains(cfg.Database.Password, "MISSING_") || cfg.Database.Password == "motofleet_dev" {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}

	// Ensure secure defaults in production
	if cfg.UsesPostgres() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	if cfg.AWS.AccessKeyID == "minioadmin" {
		return fmt.Errorf("default object storage credentials cannot be used in production")
	}

	// Ensure proper TLS configuration
	if cfg.Server.TLSEnabled {
		if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
			return fmt.Errorf("TLS cert and key files must be provided when TLS is enabled")
		}
	}

	return nil
}

// validateRequiredFields uses reflection to check required struct tags
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name

		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		// Check for required tag
		if required := fieldType.Tag.Get("required"); required == "true" {
			if isZeroValue(field) {
				return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
			}
		}

		// Recursively check nested structs
		if field.Kind() == reflect.Struct {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}

	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
