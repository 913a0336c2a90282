package usecase

import (
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// Names under which factors appear in the earning event attribution.
const (
	MultiplierStreak    = "streak"
	MultiplierHappyHour = "happy_hour"
	MultiplierBoost     = "boost"
	MultiplierReferral  = "referral"
	MultiplierCeiling   = "ceiling"
)

// MultiplierResolution is the composite multiplier for one grant together
// with its full per-factor attribution. The product of Factors always
// equals Composite, so the earning event record stays auditable even when
// the ceiling clamp kicks in.
type MultiplierResolution struct {
	Factors       []model.AppliedMultiplier
	Composite     float64
	BoostConsumed bool
}

// ResolveMultipliers computes the composite multiplier applicable to a
// reward at the moment it is granted. Factors compose multiplicatively so
// each admin lever can be reasoned about independently; the composite is
// clamped to the configured ceiling to bound compounding promotions.
func ResolveMultipliers(cfg *model.EconomyConfig, action model.ActionType, wallet *model.Wallet, now time.Time) MultiplierResolution {
	res := MultiplierResolution{Composite: 1.0}

	if factor, ok := streakFactor(cfg.StreakTiers, wallet.DailyStreak); ok {
		res.apply(MultiplierStreak, factor)
	}

	for _, window := range cfg.HappyHours {
		if window.Contains(now) {
			res.apply(MultiplierHappyHour, window.Factor)
			break
		}
	}

	if wallet.Boost.Active(now) {
		res.apply(MultiplierBoost, wallet.Boost.Factor)
		res.BoostConsumed = true
	}

	if action == model.ActionReferral && cfg.ReferralFactor > 0 && cfg.ReferralFactor != 1.0 {
		res.apply(MultiplierReferral, cfg.ReferralFactor)
	}

	if max := cfg.MaxMultiplier; max > 0 && res.Composite > max {
		res.apply(MultiplierCeiling, max/res.Composite)
		res.Composite = max
	}

	return res
}

func (r *MultiplierResolution) apply(name string, factor float64) {
	r.Factors = append(r.Factors, model.AppliedMultiplier{Name: name, Factor: factor})
	r.Composite *= factor
}

// streakFactor picks the tier with the highest MinDays not exceeding the
// streak. A factor of exactly 1.0 carries no attribution value.
func streakFactor(tiers []model.StreakTier, streak int) (float64, bool) {
	best := -1
	factor := 1.0
	for _, tier := range tiers {
		if streak >= tier.MinDays && tier.MinDays > best {
			best = tier.MinDays
			factor = tier.Factor
		}
	}
	if best < 0 || factor == 1.0 {
		return 0, false
	}
	return factor, true
}
