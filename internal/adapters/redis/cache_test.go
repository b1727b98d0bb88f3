package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
)

// Requires a Redis on localhost:6379; skipped otherwise.
func TestCacheRoundTrip(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("redis not available")
	}
	c := New(client, time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	key := "test-" + time.Now().Format("150405.000000000")
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := domain.NoContent(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Set(ctx, key, want))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	client.Del(ctx, keyPrefix+key)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url", time.Minute)
	assert.Error(t, err)
}
