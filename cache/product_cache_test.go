package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	store   map[string]string
	ttls    map[string]time.Duration
	failAll bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.failAll {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.store[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.failAll {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	for _, k := range keys {
		delete(f.store, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestRedisProductCache_RoundTrip(t *testing.T) {
	client := newFakeRedis()
	c := NewRedisProductCache(client, 10*time.Minute, zap.NewNop())
	product := &models.Product{ID: uuid.New(), Name: "X-Salada", Price: decimal.RequireFromString("19.90"), CategoryID: uuid.New()}

	_, ok := c.Get(context.Background(), product.ID)
	assert.False(t, ok)

	c.Set(context.Background(), product)
	assert.Equal(t, 10*time.Minute, client.ttls[ProductCachePrefix+product.ID.String()])

	cached, ok := c.Get(context.Background(), product.ID)
	require.True(t, ok)
	assert.Equal(t, product.Name, cached.Name)
	assert.True(t, product.Price.Equal(cached.Price))

	c.Delete(context.Background(), product.ID)
	_, ok = c.Get(context.Background(), product.ID)
	assert.False(t, ok)
}

func TestRedisProductCache_FailsOpen(t *testing.T) {
	client := newFakeRedis()
	client.failAll = true
	c := NewRedisProductCache(client, time.Minute, zap.NewNop())
	id := uuid.New()

	c.Set(context.Background(), &models.Product{ID: id})
	_, ok := c.Get(context.Background(), id)
	assert.False(t, ok)
	c.Delete(context.Background(), id)
	assert.Error(t, c.Ping(context.Background()))
}

func TestRedisProductCache_CorruptEntry(t *testing.T) {
	client := newFakeRedis()
	id := uuid.New()
	client.store[ProductCachePrefix+id.String()] = "{not json"
	c := NewRedisProductCache(client, time.Minute, zap.NewNop())

	_, ok := c.Get(context.Background(), id)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)

	_, err = NewRedisClient("http://nope")
	assert.Error(t, err)
}

func TestNoopProductCache(t *testing.T) {
	var c ProductCache = NoopProductCache{}
	_, ok := c.Get(context.Background(), uuid.New())
	assert.False(t, ok)
	assert.NoError(t, c.Ping(context.Background()))
}
