package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const ProductCachePrefix = "product:detail:"

// ProductCache stores product lookups used by order creation and product reads.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, bool)
	Set(ctx context.Context, product *models.Product)
	Delete(ctx context.Context, id uuid.UUID)
	Ping(ctx context.Context) error
}

// redisClient is the slice of go-redis used here.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisProductCache caches products as JSON. Every failure is logged and
// treated as a miss so callers fall back to the database.
type RedisProductCache struct {
	redis  redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProductCache(client redisClient, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	return &RedisProductCache{redis: client, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func productKey(id uuid.UUID) string {
	return ProductCachePrefix + id.String()
}

func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	raw, err := c.redis.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Product cache read failed", zap.Error(err), zap.String("product_id", id.String()))
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		c.logger.Warn("Failed to unmarshal cached product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, false
	}
	return &product, true
}

func (c *RedisProductCache) Set(ctx context.Context, product *models.Product) {
	payload, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("Failed to marshal product for cache", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, productKey(product.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product", zap.Error(err), zap.String("product_id", product.ID.String()))
	}
}

func (c *RedisProductCache) Delete(ctx context.Context, id uuid.UUID) {
	if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached product", zap.Error(err), zap.String("product_id", id.String()))
	}
}

func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// NoopProductCache is used when no Redis is configured.
type NoopProductCache struct{}

func (NoopProductCache) Get(ctx context.Context, id uuid.UUID) (*models.Product, bool) { return nil, false }
func (NoopProductCache) Set(ctx context.Context, product *models.Product)              {}
func (NoopProductCache) Delete(ctx context.Context, id uuid.UUID)                      {}
func (NoopProductCache) Ping(ctx context.Context) error                                { return nil }
