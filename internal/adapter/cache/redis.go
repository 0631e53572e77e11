// Package cache wraps lifecycle providers with a Redis read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

// DefaultTTL is used when the configured TTL is not positive
const DefaultTTL = 15 * time.Minute

// Client is the subset of the Redis client the cache needs
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ Client = (*redis.Client)(nil)

// Connect initializes a Redis client from URL or host:port input
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// CachedProvider serves lifecycle series from Redis and falls through to
// the wrapped provider on a miss. Only found series are cached.
type CachedProvider struct {
	next   trend.LifecycleProvider
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedProvider wraps next with a Redis cache
func NewCachedProvider(next trend.LifecycleProvider, client Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProvider{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "lifecycle_cache"),
	}
}

// Key returns the cache key for a query
func Key(q trend.Query) string {
	return fmt.Sprintf("lifecycle:%s:%s:%s:%s",
		strings.ToLower(strings.TrimSpace(q.Platform)),
		trend.NormalizeKeyword(q.Keyword),
		q.StartDate.Format(trend.DateLayout),
		q.EndDate.Format(trend.DateLayout),
	)
}

// Fetch implements trend.LifecycleProvider
func (c *CachedProvider) Fetch(ctx context.Context, q trend.Query) (trend.LifecycleSeries, error) {
	key := Key(q)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var series trend.LifecycleSeries
		if jsonErr := json.Unmarshal(raw, &series); jsonErr == nil && series.Len() > 0 {
			c.logger.DebugContext(ctx, "cache hit", "key", key)
			return trend.NewLifecycleSeries(series.Dates, series.Engagement, series.PostFrequency), nil
		}
		c.logger.WarnContext(ctx, "discarding unreadable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	series, err := c.next.Fetch(ctx, q)
	if err != nil || series.Len() == 0 {
		return series, err
	}

	payload, err := json.Marshal(series)
	if err != nil {
		return series, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return series, nil
}
