// internal/cache/cache_test.go
package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/internal/domain"
)

func unreachableCache(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil)), "test", time.Minute)
}

func TestRedisCache_Key(t *testing.T) {
	c := unreachableCache(t)
	assert.Equal(t, "test:recommendations:42", c.key(42))
}

func TestRedisCache_BackendErrors(t *testing.T) {
	c := unreachableCache(t)
	ctx := context.Background()

	recs, hit, err := c.Get(ctx, 1)
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Nil(t, recs)

	assert.Error(t, c.Set(ctx, 1, []domain.Recommendation{{UserID: 2}}))
	assert.Error(t, c.Invalidate(ctx, 1, 2))
	assert.Error(t, c.Ping(ctx))
}

func TestRedisCache_InvalidateNothing(t *testing.T) {
	c := unreachableCache(t)
	require.NoError(t, c.Invalidate(context.Background()))
}

func TestNoop(t *testing.T) {
	var c RecommendationCache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, []domain.Recommendation{{UserID: 2}}))
	recs, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, recs)
	assert.NoError(t, c.Invalidate(ctx, 1))
}
