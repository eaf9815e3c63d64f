// internal/core/ports/notifications.go
package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

// Email is an outgoing notification
type Email struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers notification e-mails
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// ObjectStorage stores archived documents and returns their location
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ErrLockNotAcquired is returned by callers that give up on a held lock
var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker is a distributed mutual-exclusion lock with a lease
type Locker interface {
	// Acquire returns ok=false without error when someone else holds key
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key only if it is still held with token
	Release(ctx context.Context, key, token string) error
}
