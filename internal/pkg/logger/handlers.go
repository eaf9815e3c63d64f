// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// ContextHandler extracts values from context and adds them to log records
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a handler that enriches logs with context values
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := extractContextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// SanitizationHandler masks credentials in messages and attributes
type SanitizationHandler struct {
	handler   slog.Handler
	patterns  []redaction
	blacklist []string
}

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewSanitizationHandler creates a handler that sanitizes sensitive data
func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{
		handler: handler,
		patterns: []redaction{
			{regexp.MustCompile(`(?i)(password|pwd|secret|token|api[-_]?key)\s*[:=]\s*["']?[^"'\s]+`), "$1=***REDACTED***"},
			{regexp.MustCompile(`(?i)((?:postgres(?:ql)?|redis)://[^:/\s]*):[^@\s]+@`), "$1:***REDACTED***@"},
		},
		blacklist: []string{
			"password", "pwd", "secret", "token", "authorization", "api_key",
		},
	}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, h.sanitizeString(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		newRecord.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, newRecord)
}

func (h *SanitizationHandler) sanitizeAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(attr.Key)
	for _, blacklisted := range h.blacklist {
		if strings.Contains(lowerKey, blacklisted) {
			attr.Value = slog.StringValue("***REDACTED***")
			return attr
		}
	}

	if attr.Value.Kind() == slog.KindString {
		attr.Value = slog.StringValue(h.sanitizeString(attr.Value.String()))
	}

	return attr
}

func (h *SanitizationHandler) sanitizeString(s string) string {
	for _, r := range h.patterns {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &SanitizationHandler{
		handler:   h.handler.WithAttrs(sanitized),
		patterns:  h.patterns,
		blacklist: h.blacklist,
	}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{
		handler:   h.handler.WithGroup(name),
		patterns:  h.patterns,
		blacklist: h.blacklist,
	}
}

// PrettyTextHandler provides human-readable colored output for development
type PrettyTextHandler struct {
	*slog.TextHandler
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

// NewPrettyTextHandler creates a pretty text handler
func NewPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyTextHandler {
	return &PrettyTextHandler{
		TextHandler: slog.NewTextHandler(w, opts),
		mu:          &sync.Mutex{},
		w:           w,
	}
}

func (h *PrettyTextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	levelColor := h.getLevelColor(r.Level)
	resetColor := "\033[0m"
	level := r.Level.String()

	fmt.Fprintf(h.w, "%s%s %s%s%s %s",
		levelColor,
		r.Time.Format("2006-01-02 15:04:05.000"),
		strings.ToUpper(level),
		resetColor,
		strings.Repeat(" ", max(7-len(level), 1)),
		r.Message,
	)

	write := func(a slog.Attr) bool {
		fmt.Fprintf(h.w, " %s%s=%v%s", "\033[36m", a.Key, a.Value, resetColor)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	_, err := fmt.Fprintln(h.w)
	return err
}

func (h *PrettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyTextHandler{
		TextHandler: h.TextHandler,
		mu:          h.mu,
		w:           h.w,
		attrs:       append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *PrettyTextHandler) getLevelColor(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "\033[37m" // White
	case slog.LevelInfo:
		return "\033[34m" // Blue
	case slog.LevelWarn:
		return "\033[33m" // Yellow
	case slog.LevelError:
		return "\033[31m" // Red
	default:
		return "\033[0m" // Reset
	}
}
