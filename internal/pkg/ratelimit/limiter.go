package ratelimit

import (
	"context"
	"time"

	"unitra/internal/store"
)

// Window is the fixed rate-limit window length.
const Window = time.Minute

// Result of an admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter is a fixed-window counter keyed by (identity, endpoint), backed by
// the shared store so the limit holds across replicas. The increment and the
// fetch happen in one atomic store operation; a counter that vanishes
// between requests (TTL expiry race) simply starts a fresh window, which
// can undercount but never overcount.
type Limiter struct {
	store  store.Store
	window time.Duration
}

func New(st store.Store) *Limiter {
	return &Limiter{store: st, window: Window}
}

// Admit counts this request against the (userID, endpoint) window and
// reports whether it fits under limit. The counter is incremented before
// the caller dispatches, so a cancelled request still occupies its slot.
func (l *Limiter) Admit(ctx context.Context, userID, endpoint string, limit int) (Result, error) {
	count, resetIn, err := l.store.IncrementWindow(ctx, userID, endpoint, l.window)
	if err != nil {
		return Result{}, err
	}
	if count > int64(limit) {
		return Result{Allowed: false, Remaining: 0, ResetIn: resetIn}, nil
	}
	return Result{
		Allowed:   true,
		Remaining: limit - int(count),
		ResetIn:   resetIn,
	}, nil
}
