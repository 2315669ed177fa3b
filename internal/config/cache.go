package config

import (
	"context"

	"github.com/matzehuels/dfdlayout/pkg/cache"
)

// Open creates the configured cache backend. The "none" backend, and
// noCache, yield a [cache.NullCache].
func (c CacheConfig) Open(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Backend {
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:      c.MongoURI,
			Database: c.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		return mc, nil
	case BackendNone:
		return cache.NewNullCache(), nil
	default:
		dir := c.Dir
		if dir == "" {
			dir = DefaultCacheDir()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Keyer returns the key scheme, scoped by Prefix when set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}
