// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"socialgraph/internal/domain"
)

// RecommendationCache stores computed recommendation lists per user.
// Cache failures are never fatal to callers; a failed Get is a miss.
type RecommendationCache interface {
	Get(ctx context.Context, userID int64) ([]domain.Recommendation, bool, error)
	Set(ctx context.Context, userID int64, recs []domain.Recommendation) error
	Invalidate(ctx context.Context, userIDs ...int64) error
}

// RedisCache implements RecommendationCache on top of Redis.
type RedisCache struct {
	client redis.UniversalClient
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache whose keys start with prefix.
func NewRedisCache(client redis.UniversalClient, logger *slog.Logger, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, logger: logger, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(userID int64) string {
	return fmt.Sprintf("%s:recommendations:%d", c.prefix, userID)
}

func (c *RedisCache) Get(ctx context.Context, userID int64) ([]domain.Recommendation, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", "key", c.key(userID), "error", err)
		return nil, false, nil
	}
	return recs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID int64, recs []domain.Recommendation) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Ping checks connectivity to Redis.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Noop is used when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, int64) ([]domain.Recommendation, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, int64, []domain.Recommendation) error        { return nil }
func (Noop) Invalidate(context.Context, ...int64) error                       { return nil }
