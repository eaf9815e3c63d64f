package redis_a_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/motofleet-be/internal/adapters/redis_adapter"
)

func newLocker(t *testing.T) (*redis_a.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis_a.NewLocker(client, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestLocker_AcquireIsExclusive(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	token, ok, err := locker.Acquire(ctx, "due-scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)
	assert.True(t, mr.Exists(redis_a.BuildKey("due-scan")))

	_, ok, err = locker.Acquire(ctx, "due-scan", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker_ReleaseRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	token, ok, err := locker.Acquire(ctx, "due-scan", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(ctx, "due-scan", "someone-else"))
	assert.True(t, mr.Exists(redis_a.BuildKey("due-scan")))

	require.NoError(t, locker.Release(ctx, "due-scan", token))
	assert.False(t, mr.Exists(redis_a.BuildKey("due-scan")))

	_, ok, err = locker.Acquire(ctx, "due-scan", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_LeaseExpires(t *testing.T) {
	ctx := context.Background()
	locker, mr := newLocker(t)

	_, ok, err := locker.Acquire(ctx, "due-scan", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(31 * time.Second)

	_, ok, err = locker.Acquire(ctx, "due-scan", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("non_positive_ttl", func(t *testing.T) {
		locker, _ := newLocker(t)
		_, _, err := locker.Acquire(ctx, "k", 0)
		assert.Error(t, err)
	})

	t.Run("server_down", func(t *testing.T) {
		locker, mr := newLocker(t)
		mr.Close()
		_, ok, err := locker.Acquire(ctx, "k", time.Second)
		assert.Error(t, err)
		assert.False(t, ok)
	})
}
