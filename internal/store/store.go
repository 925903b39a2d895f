// Package store abstracts the shared key-value store holding everything
// that must be correct across replicas: the token blacklist, rate-limit
// window counters and weekly usage accumulators.
//
// Key schema:
//
//	blacklist:{jti}            presence marker, TTL = remaining token lifetime
//	ratelimit:{user}:{endpoint} integer counter, TTL = window length
//	usage:{user}:{week}        integer counter, TTL ~ 8 days
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every transport-level store failure, timeouts
// included. Callers decide fail-open vs fail-closed.
var ErrUnavailable = errors.New("store unavailable")

// Store is implemented by the Redis adapter in production and by Memory in
// tests. All increment-and-fetch operations are atomic on the store side;
// none of them may be implemented as separate check and write round-trips.
type Store interface {
	// Blacklist marks jti revoked for ttl. Idempotent.
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted reports whether jti has been revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// IncrementWindow atomically bumps the (userID, endpoint) window
	// counter, starting a fresh window with TTL=window on first hit.
	// Returns the new count and the time until the window resets.
	IncrementWindow(ctx context.Context, userID, endpoint string, window time.Duration) (count int64, resetIn time.Duration, err error)

	// IncrementUsage atomically adds units to the (userID, weekKey)
	// accumulator and refreshes its TTL. Returns the new total.
	IncrementUsage(ctx context.Context, userID, weekKey string, units int64, ttl time.Duration) (int64, error)

	// GetUsage returns the current accumulator value, 0 if absent.
	GetUsage(ctx context.Context, userID, weekKey string) (int64, error)

	// Ping reports store reachability, used by readiness checks.
	Ping(ctx context.Context) error
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

func rateLimitKey(userID, endpoint string) string {
	return "ratelimit:" + userID + ":" + endpoint
}

func usageKey(userID, weekKey string) string {
	return "usage:" + userID + ":" + weekKey
}
