// internal/adapters/redis_adapter/lock.go
package redis_a

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

const lockPrefix = "motofleet:lock"

// releaseScript deletes the key only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-instance Redis lease lock
type Locker struct {
	client redis.UniversalClient
	logger *slog.Logger
}

var _ ports.Locker = (*Locker)(nil)

// NewLocker creates a lock backed by client
func NewLocker(client redis.UniversalClient, logger *slog.Logger) *Locker {
	return &Locker{
		client: client,
		logger: logger.With(slog.String("component", "locker")),
	}
}

// Acquire sets key with a random token for ttl unless it is already held
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		return "", false, fmt.Errorf("lock ttl must be positive, got %s", ttl)
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, BuildKey(key), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		l.logger.DebugContext(ctx, "lock held elsewhere", slog.String("key", key))
		return "", false, nil
	}

	l.logger.DebugContext(ctx, "lock acquired",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return token, true, nil
}

// Release frees key if token still owns it. An expired or stolen lease is not an error.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{BuildKey(key)}, token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if n == 0 {
		l.logger.WarnContext(ctx, "lock already expired or taken over",
			slog.String("key", key))
	}
	return nil
}

// BuildKey namespaces a lock name
func BuildKey(parts ...string) string {
	return lockPrefix + ":" + strings.Join(parts, ":")
}
