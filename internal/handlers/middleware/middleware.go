// internal/handlers/middleware/middleware.go
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ammerola/motofleet-be/internal/pkg/logger"
)

const defaultRequestIDHeader = "X-Request-ID"

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed is the outermost
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID middleware adds a unique request ID to each request, reusing the one set
// by a proxy when present
func RequestID(header string) Middleware {
	if header == "" {
		header = defaultRequestIDHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(header)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := logger.WithContextValue(r.Context(), logger.ContextKeyRequestID, requestID)
			w.Header().Set(header, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger enriches the request context with logging fields and logs each completed request
func Logger(l *slog.Logger, trustedProxies []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = uuid.New().String()
			}
			w.Header().Set("X-Trace-ID", traceID)

			ctx := r.Context()
			ctx = logger.WithContextValue(ctx, logger.ContextKeyTraceID, traceID)
			ctx = logger.WithContextValue(ctx, logger.ContextKeyClientIP, ClientIP(r, trustedProxies))
			ctx = logger.WithContextValue(ctx, logger.ContextKeyUserAgent, r.UserAgent())
			ctx = logger.WithContextValue(ctx, logger.ContextKeyMethod, r.Method)
			ctx = logger.WithContextValue(ctx, logger.ContextKeyPath, r.URL.Path)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			level := slog.LevelInfo
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400, duration > 5*time.Second:
				level = slog.LevelWarn
			}

			l.Log(ctx, level, "request completed",
				slog.String("query", r.URL.RawQuery),
				slog.Group("response",
					slog.Int("status", wrapped.statusCode),
					slog.Int("bytes", wrapped.bytesWritten),
					slog.Duration("duration", duration),
				),
			)
		})
	}
}

// Recovery middleware recovers from panics
func Recovery(l *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					requestID := logger.RequestIDFromContext(r.Context())

					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":"Internal Server Error","request_id":"` + requestID + `"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type rateLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimit middleware allows requests per duration for each client IP, with a burst of
// the same size. Idle limiters are dropped until ctx is cancelled.
func RateLimit(ctx context.Context, requests int, duration time.Duration, trustedProxies []string) Middleware {
	limiters := &sync.Map{}
	every := rate.Every(duration / time.Duration(max(requests, 1)))

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				limiters.Range(func(key, value any) bool {
					rl := value.(*rateLimiter)
					rl.mu.Lock()
					idle := now.Sub(rl.lastSeen) > 10*time.Minute
					rl.mu.Unlock()
					if idle {
						limiters.Delete(key)
					}
					return true
				})
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustedProxies)

			val, _ := limiters.LoadOrStore(ip, &rateLimiter{
				limiter:  rate.NewLimiter(every, requests),
				lastSeen: time.Now(),
			})
			rl := val.(*rateLimiter)
			rl.mu.Lock()
			rl.lastSeen = time.Now()
			rl.mu.Unlock()

			if !rl.limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORS middleware handles Cross-Origin Resource Sharing
func CORS(allowedOrigins []string) Middleware {
	wildcard := slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (wildcard || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders middleware adds security headers
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	written      bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// ClientIP returns the caller address. Forwarding headers are honoured only when the
// direct peer is one of trustedProxies.
func ClientIP(r *http.Request, trustedProxies []string) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return remote
}
