package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
)

// ErrMiss is returned by GetJSON when the key does not exist.
var ErrMiss = errors.New("cache: miss")

// Cache wraps a Redis client with JSON helpers and key-family invalidation.
// A nil *Cache is valid and behaves as an always-empty cache.
type Cache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// New creates a Cache over rdb.
func New(rdb *redis.Client, log zerolog.Logger) *Cache {
	return &Cache{
		rdb: rdb,
		log: log.With().Str("component", "cache").Logger(),
	}
}

// Client exposes the underlying client for pub/sub and queue operations.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// GetJSON decodes the value at key into dst. Returns ErrMiss when absent.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) error {
	if c == nil {
		return ErrMiss
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores value JSON-encoded at key with the given TTL (0 = no expiry).
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Incr increments the counter at key and returns the new value.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	return c.rdb.Incr(ctx, key).Result()
}

// InvalidatePrefix deletes every key starting with prefix and returns how many were removed.
// The scan completes before anything is deleted so no page of keys is skipped.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if c == nil {
		return 0, nil
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan %s*: %w", prefix, err)
	}

	removed := 0
	for start := 0; start < len(keys); start += scanCount {
		end := min(start+scanCount, len(keys))
		n, err := c.rdb.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("del %s*: %w", prefix, err)
		}
		removed += int(n)
	}
	return removed, nil
}

const scanCount = 200

// Remember returns the cached value at key, or calls load and caches its result.
// Cache failures are logged and never hide the loader's result.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrMiss) {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, loading from source")
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := c.SetJSON(ctx, key, v, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return v, nil
}

// Invalidation drops the cached pages that depend on each kind of content.
type Invalidation struct {
	c *Cache
}

// Invalidate returns the invalidation helpers for c.
func (c *Cache) Invalidate() Invalidation {
	return Invalidation{c: c}
}

func (i Invalidation) drop(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if _, err := i.c.InvalidatePrefix(ctx, p); err != nil && i.c != nil {
			i.c.log.Warn().Err(err).Str("prefix", p).Msg("Cache invalidation failed")
		}
	}
}

// Testimonials drops testimonial listings, stats and the home page.
func (i Invalidation) Testimonials(ctx context.Context) {
	i.drop(ctx, config.PrefixTestimonial, config.CacheKey.HomePageKey())
}

// Schedule drops the weekly schedule, pricing and instructor pages that list classes.
func (i Invalidation) Schedule(ctx context.Context) {
	i.drop(ctx, config.PrefixSchedule, config.PrefixInstructor, config.CacheKey.PricingPageKey())
}

func (i Invalidation) Instructors(ctx context.Context) {
	i.drop(ctx, config.PrefixInstructor, config.PrefixSchedule, config.CacheKey.HomePageKey())
}

func (i Invalidation) Gallery(ctx context.Context) {
	i.drop(ctx, config.PrefixGallery)
}

func (i Invalidation) Events(ctx context.Context) {
	i.drop(ctx, config.PrefixEvent, config.CacheKey.HomePageKey())
}

func (i Invalidation) Resources(ctx context.Context) {
	i.drop(ctx, config.PrefixResource)
}

func (i Invalidation) Playlists(ctx context.Context) {
	i.drop(ctx, config.PrefixPlaylist)
}

// Pages drops every cached page payload, used when site settings change.
func (i Invalidation) Pages(ctx context.Context) {
	i.drop(ctx, config.PrefixPage)
}
