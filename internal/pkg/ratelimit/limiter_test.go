package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitra/internal/store"
)

func TestLimiter_AdmitUpToLimit(t *testing.T) {
	ctx := context.Background()
	l := New(store.NewMemory())

	for i := 1; i <= 5; i++ {
		res, err := l.Admit(ctx, "u1", "translate", 5)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 5-i, res.Remaining)
	}

	res, err := l.Admit(ctx, "u1", "translate", 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.ResetIn, time.Duration(0))
}

func TestLimiter_WindowResets(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	mem.Now = func() time.Time { return now }
	l := New(mem)

	for i := 0; i < 3; i++ {
		res, err := l.Admit(ctx, "u1", "translate", 2)
		require.NoError(t, err)
		assert.Equal(t, i < 2, res.Allowed)
	}

	now = now.Add(Window + time.Second)
	res, err := l.Admit(ctx, "u1", "translate", 2)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestLimiter_IsolatedPerUserAndEndpoint(t *testing.T) {
	ctx := context.Background()
	l := New(store.NewMemory())

	res, err := l.Admit(ctx, "u1", "translate", 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Admit(ctx, "u1", "translate", 1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// Other identities and endpoints are unaffected.
	res, err = l.Admit(ctx, "u2", "translate", 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Admit(ctx, "u1", "auth", 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_ConcurrentAdmitsNeverOvercount(t *testing.T) {
	ctx := context.Background()
	l := New(store.NewMemory())

	const limit = 10
	const attempts = 40

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			res, err := l.Admit(ctx, "u1", "translate", limit)
			assert.NoError(t, err)
			if res.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, admitted)
}

func TestLimiter_StoreErrorPropagates(t *testing.T) {
	l := New(failingStore{})

	_, err := l.Admit(context.Background(), "u1", "translate", 5)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

type failingStore struct{}

func (failingStore) Blacklist(context.Context, string, time.Duration) error {
	return store.ErrUnavailable
}

func (failingStore) IsBlacklisted(context.Context, string) (bool, error) {
	return false, store.ErrUnavailable
}

func (failingStore) IncrementWindow(context.Context, string, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, store.ErrUnavailable
}

func (failingStore) IncrementUsage(context.Context, string, string, int64, time.Duration) (int64, error) {
	return 0, store.ErrUnavailable
}

func (failingStore) GetUsage(context.Context, string, string) (int64, error) {
	return 0, store.ErrUnavailable
}

func (failingStore) Ping(context.Context) error {
	return store.ErrUnavailable
}
