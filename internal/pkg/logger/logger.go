// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
	ContextKeyTaskType  ContextKey = "task_type"
	ContextKeyTaskID    ContextKey = "task_id"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text
	AddSource      bool
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// SetupLogger builds the process logger on stdout and installs it as the slog default
func SetupLogger(level string, format string) *slog.Logger {
	logger := NewLogger(os.Stdout, &LogConfig{
		Level:          level,
		Format:         format,
		AddSource:      level == "debug",
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
		Environment:    os.Getenv("APP_ENV"),
	})
	slog.SetDefault(logger)
	return logger
}

// NewLogger creates a logger writing to w. Records are enriched with request-scoped
// context values and scrubbed of secrets.
func NewLogger(w io.Writer, config *LogConfig) *slog.Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json"}
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return replaceAttr(config, groups, a)
		},
	}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = NewPrettyTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = NewContextHandler(handler)
	handler = NewSanitizationHandler(handler)

	attrs := []slog.Attr{}
	if config.ServiceName != "" {
		attrs = append(attrs, slog.String("service", config.ServiceName))
	}
	if config.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", config.ServiceVersion))
	}
	if config.Environment != "" {
		attrs = append(attrs, slog.String("env", config.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// WithContextValue stores a value that ContextHandler adds to every record logged with ctx
func WithContextValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// RequestIDFromContext returns the request id stored by the HTTP middleware, if any
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func contextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeyTraceID,
		ContextKeyClientIP,
		ContextKeyUserAgent,
		ContextKeyMethod,
		ContextKeyPath,
		ContextKeyTaskType,
		ContextKeyTaskID,
	}
}

func extractContextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	for _, key := range contextKeys() {
		val := ctx.Value(key)
		if val == nil {
			continue
		}
		keyStr := string(key)
		switch v := val.(type) {
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(keyStr, v))
			}
		case uuid.UUID:
			attrs = append(attrs, slog.String(keyStr, v.String()))
		default:
			attrs = append(attrs, slog.Any(keyStr, v))
		}
	}

	return attrs
}

func replaceAttr(config *LogConfig, _ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
		}
	}

	// Rename level key for log aggregators
	if a.Key == slog.LevelKey && config.Format == "json" {
		a.Key = "severity"
	}

	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Milliseconds()))
		}
	}

	return a
}
