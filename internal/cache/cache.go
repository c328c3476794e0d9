// Package cache wraps a Redis client around directions responses keyed by
// query shape, so repeated requests for the same trip on the same
// departure bucket skip Dijkstra entirely: a singleton client, a hashed
// cache key, and Get/Set with a TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/antigravity/transitcore/internal/config"
	"github.com/antigravity/transitcore/internal/directions"
)

// Cache is a thin Redis-backed store of *directions.Directions, keyed by
// DirectionsKey.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis per cfg. It does not ping eagerly; the first
// Get/Set call surfaces a connection error.
func New(cfg config.RedisConfig) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTL,
	}
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// DirectionsKey derives a deterministic cache key from the query shape:
// the query coordinates as given and the departure rounded down to a one-minute
// bucket, so queries issued seconds apart still share a cache entry.
func DirectionsKey(srcLon, srcLat, dstLon, dstLat float64, departure time.Time) string {
	bucket := departure.Truncate(time.Minute).Unix()
	data := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%d", srcLon, srcLat, dstLon, dstLat, bucket)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("directions:%x", hash[:12])
}

// Get returns the cached directions for key, or (nil, nil) on a cache
// miss.
func (c *Cache) Get(ctx context.Context, key string) (*directions.Directions, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	var d directions.Directions
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return &d, nil
}

// Set stores d under key with the cache's configured TTL.
func (c *Cache) Set(ctx context.Context, key string, d *directions.Directions) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
