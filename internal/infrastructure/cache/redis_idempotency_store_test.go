package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisForTest connects to LEDGER_TEST_REDIS_ADDR or skips the test
func redisForTest(t *testing.T) *RedisIdempotencyStore {
	t.Helper()
	addr := os.Getenv("LEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_TEST_REDIS_ADDR not set")
	}
	store, err := NewRedisIdempotencyStore(context.Background(), RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisIdempotencyStore(t *testing.T) {
	store := redisForTest(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	require.NoError(t, store.Ping(ctx))

	fresh, err := store.MarkProcessed(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	held, err := store.IsProcessed(ctx, key)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, store.Release(ctx, key))
	held, err = store.IsProcessed(ctx, key)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRedisIdempotencyStore_ConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	store := NewRedisIdempotencyStoreWithClient(client, "")
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "k", time.Minute)
	assert.ErrorContains(t, err, "failed to claim idempotency key")

	_, err = store.IsProcessed(ctx, "k")
	assert.ErrorContains(t, err, "failed to check idempotency key")

	assert.ErrorContains(t, store.Release(ctx, "k"), "failed to release idempotency key")
}

func TestNewRedisIdempotencyStore_Unreachable(t *testing.T) {
	_, err := NewRedisIdempotencyStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
