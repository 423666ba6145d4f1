package factory

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/redweb/donor-registry/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

type redisBackedCache struct {
	pingOnlyCache
	client *redis.Client
}

func (c redisBackedCache) GetClient() *redis.Client { return c.client }

func TestDefaultRateLimiterFactory_InMemoryWithoutRedis(t *testing.T) {
	for _, cache := range []Cache{nil, pingOnlyCache{}} {
		f := NewDefaultRateLimiterFactory(cache, nil)
		assert.False(t, f.Distributed())

		limiter := f.CreateRateLimiter("register", 30, time.Minute)
		assert.IsType(t, &ratelimit.InMemoryRateLimiter{}, limiter)
	}
}

func TestDefaultRateLimiterFactory_UsesRedisClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	f := NewDefaultRateLimiterFactory(redisBackedCache{client: client}, nil)
	assert.True(t, f.Distributed())

	limiter := f.CreateRateLimiter("register", 30, time.Minute)
	assert.IsType(t, &ratelimit.RedisRateLimiter{}, limiter)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 30, requests)
	assert.Equal(t, time.Minute, window)
}

func TestDefaultRateLimiterFactory_ScopesRedisKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	f := NewDefaultRateLimiterFactory(redisBackedCache{client: client}, nil)

	limiter, ok := f.CreateRateLimiter("register", 30, time.Minute).(*ratelimit.RedisRateLimiter)
	assert.True(t, ok)
	assert.Equal(t, "ratelimit:register:10.0.0.1", limiter.KeyFor("ratelimit:10.0.0.1"))
	assert.Equal(t, "ratelimit:register:10.0.0.1", limiter.KeyFor("10.0.0.1"))
}
