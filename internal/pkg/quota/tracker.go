package quota

import (
	"context"
	"fmt"
	"time"

	"unitra/internal/pkg/limits"
	"unitra/internal/store"
)

// usageTTL keeps weekly accumulators a bit past one week so they expire on
// their own and never need manual cleanup.
const usageTTL = 8 * 24 * time.Hour

// WeekKey derives the accumulator key suffix for t, e.g. "2026-W35".
// ISO week, so year boundaries behave.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Tracker accumulates weekly consumption per identity in the shared store
// and compares it against a tier ceiling. It provides atomic add-and-check
// only; idempotent consumption on retries is the caller's concern.
type Tracker struct {
	store store.Store
}

func New(st store.Store) *Tracker {
	return &Tracker{store: st}
}

// Consume adds units to the identity's accumulator for weekKey and reports
// the new total and whether ceiling is now exceeded. A ceiling of
// limits.Unlimited never exceeds.
func (t *Tracker) Consume(ctx context.Context, userID, weekKey string, units, ceiling int64) (int64, bool, error) {
	total, err := t.store.IncrementUsage(ctx, userID, weekKey, units, usageTTL)
	if err != nil {
		return 0, false, err
	}
	if ceiling == limits.Unlimited {
		return total, false, nil
	}
	return total, total > ceiling, nil
}

// Peek returns the current accumulator value without mutating it.
func (t *Tracker) Peek(ctx context.Context, userID, weekKey string) (int64, error) {
	return t.store.GetUsage(ctx, userID, weekKey)
}

// Remaining computes the quota left under ceiling given current usage.
// Returns limits.Unlimited for unlimited ceilings.
func Remaining(used, ceiling int64) int64 {
	if ceiling == limits.Unlimited {
		return limits.Unlimited
	}
	if used >= ceiling {
		return 0
	}
	return ceiling - used
}
