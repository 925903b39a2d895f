package store

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     int64
	expiresAt time.Time
}

// Memory is an in-process Store for tests and local development. It mirrors
// the Redis adapter's semantics: atomic increments, TTL-based expiry.
// Not suitable for multi-replica deployments.
type Memory struct {
	mu   sync.Mutex
	data map[string]*memEntry

	// Now is the expiry clock, overridable in tests.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]*memEntry),
		Now:  time.Now,
	}
}

func (m *Memory) Blacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[blacklistKey(jti)] = &memEntry{value: 1, expiresAt: m.Now().Add(ttl)}
	return nil
}

func (m *Memory) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(blacklistKey(jti)) != nil, nil
}

func (m *Memory) IncrementWindow(_ context.Context, userID, endpoint string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rateLimitKey(userID, endpoint)
	e := m.live(key)
	if e == nil {
		e = &memEntry{expiresAt: m.Now().Add(window)}
		m.data[key] = e
	}
	e.value++
	return e.value, e.expiresAt.Sub(m.Now()), nil
}

func (m *Memory) IncrementUsage(_ context.Context, userID, weekKey string, units int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := usageKey(userID, weekKey)
	e := m.live(key)
	if e == nil {
		e = &memEntry{}
		m.data[key] = e
	}
	e.value += units
	e.expiresAt = m.Now().Add(ttl)
	return e.value, nil
}

func (m *Memory) GetUsage(_ context.Context, userID, weekKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.live(usageKey(userID, weekKey))
	if e == nil {
		return 0, nil
	}
	return e.value, nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// live returns the entry for key, dropping it first if expired.
// Callers must hold mu.
func (m *Memory) live(key string) *memEntry {
	e, ok := m.data[key]
	if !ok {
		return nil
	}
	if m.Now().After(e.expiresAt) {
		delete(m.data, key)
		return nil
	}
	return e
}
