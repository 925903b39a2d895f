package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTimeout bounds every store call so a slow Redis degrades into
// ErrUnavailable instead of stalling request handling.
const DefaultTimeout = 250 * time.Millisecond

// Redis is the production Store adapter. The underlying client pools
// connections and is safe for concurrent use across all requests.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedis(url string, timeout time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Redis{
		client:  redis.NewClient(opts),
		timeout: timeout,
	}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already past expiry, nothing to block.
		return nil
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Redis) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	n, err := r.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

func (r *Redis) IncrementWindow(ctx context.Context, userID, endpoint string, window time.Duration) (int64, time.Duration, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	key := rateLimitKey(userID, endpoint)
	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	// ExpireNX arms the TTL only on the first increment of a window, so a
	// busy key cannot have its window extended forever.
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, unavailable(err)
	}

	resetIn := ttl.Val()
	if resetIn <= 0 {
		resetIn = window
	}
	return incr.Val(), resetIn, nil
}

func (r *Redis) IncrementUsage(ctx context.Context, userID, weekKey string, units int64, ttl time.Duration) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	key := usageKey(userID, weekKey)
	pipe := r.client.Pipeline()
	incr := pipe.IncrBy(ctx, key, units)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, unavailable(err)
	}
	return incr.Val(), nil
}

func (r *Redis) GetUsage(ctx context.Context, userID, weekKey string) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	v, err := r.client.Get(ctx, usageKey(userID, weekKey)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable(err)
	}
	return v, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Redis) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
