package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/errors"
)

// Cache is the optional Redis cache shown on the panel.
type Cache struct {
	client *redis.Client
	addr   string
}

// OpenCache creates a client for cfg, or returns nil when no cache host is
// configured. Like Open, it does not connect.
func OpenCache(cfg config.CacheConfig) *Cache {
	if !cfg.Enabled() {
		return nil
	}
	addr := cfg.Addr()
	return &Cache{
		addr: addr,
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: 2 * time.Second,
			MaxRetries:  -1,
		}),
	}
}

// Addr returns host:port.
func (c *Cache) Addr() string {
	return c.addr
}

// Ping checks the cache is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.ErrCache,
			"Redis unreachable at "+c.addr,
			"Check REDIS_HOST and REDIS_PORT")
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
