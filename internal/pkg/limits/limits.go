package limits

// Tier is a subscription tier level.
type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Unlimited marks a quota ceiling that is never exceeded.
const Unlimited int64 = -1

// TierLimits holds the per-tier ceilings enforced by the rate limiter and
// the weekly usage tracker.
type TierLimits struct {
	TokensPerWeek     int64
	RequestsPerMinute int
	CloudMTAllowed    bool
}

var tierLimits = map[Tier]TierLimits{
	TierFree: {
		TokensPerWeek:     10_000,
		RequestsPerMinute: 20,
		CloudMTAllowed:    false,
	},
	TierBasic: {
		TokensPerWeek:     100_000,
		RequestsPerMinute: 60,
		CloudMTAllowed:    true,
	},
	TierPro: {
		TokensPerWeek:     500_000,
		RequestsPerMinute: 120,
		CloudMTAllowed:    true,
	},
	TierEnterprise: {
		TokensPerWeek:     Unlimited,
		RequestsPerMinute: 300,
		CloudMTAllowed:    true,
	},
}

// ForTier returns the limits for the given tier string. Unknown tiers fall
// back to FREE so a bad row in the user store can never grant extra quota.
func ForTier(tier string) TierLimits {
	if l, ok := tierLimits[Tier(tier)]; ok {
		return l
	}
	return tierLimits[TierFree]
}

// Valid reports whether tier is one of the known tier values.
func Valid(tier string) bool {
	_, ok := tierLimits[Tier(tier)]
	return ok
}
