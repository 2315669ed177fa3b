package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by [RedisCache].
const DefaultRedisPrefix = "dfdlayout:"

// RedisConfig configures a [RedisCache].
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`

	// Retries is the number of attempts for operations failing with a
	// network error. Zero means 3.
	Retries int `toml:"retries"`
}

// RedisCache stores entries in Redis. It is the cache used by the HTTP
// server, where several instances share computed layouts.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	backoff Backoff
}

// NewRedisCache connects to Redis and pings it once. A failed ping is
// returned wrapped in [ErrBackend].
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := newRedisCache(client, cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrBackend, cfg.Addr, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. No ping is made.
func NewRedisCacheFromClient(client *redis.Client, cfg RedisConfig) *RedisCache {
	return newRedisCache(client, cfg)
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 3
	}
	return &RedisCache{
		client:  client,
		prefix:  prefix,
		backoff: Backoff{Attempts: retries, Delay: 100 * time.Millisecond, Transient: isNetworkError},
	}
}

// Key returns the Redis key used for a cache key.
func (c *RedisCache) Key(key string) string { return c.prefix + key }

// Get reads a value. redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.Key(key)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes a value. A ttl of zero or less never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.retry(ctx, func() error {
		return c.client.Set(ctx, c.Key(key), data, ttl).Err()
	})
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return c.client.Del(ctx, c.Key(key)).Err()
	})
}

// Clear deletes every key under the prefix using SCAN, so it never blocks
// the server the way KEYS would.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return c.classify(err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, c.classify(err)
	}
	return removed, flush()
}

// Close closes the client.
func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	return c.classify(c.backoff.Do(ctx, fn))
}

// classify tags network failures with ErrBackend.
func (c *RedisCache) classify(err error) error {
	if isNetworkError(err) {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return err
}

func isNetworkError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded)
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
