package model

import (
	"fmt"
	"time"
)

// StreakTier maps a minimum consecutive-day streak to a reward factor.
// Tiers are matched by the highest MinDays not exceeding the user's streak.
type StreakTier struct {
	MinDays int     `json:"min_days"`
	Factor  float64 `json:"factor"`
}

// HappyHour is an admin-defined UTC window with an elevated reward factor.
// The window covers [StartHour, EndHour); EndHour may be 24.
type HappyHour struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Factor    float64 `json:"factor"`
}

// Contains reports whether t (in UTC) falls inside the window.
func (h HappyHour) Contains(t time.Time) bool {
	hour := t.UTC().Hour()
	return hour >= h.StartHour && hour < h.EndHour
}

// EconomyConfig is the versioned, admin-owned parameter set driving all
// point and currency computations. Consumers receive immutable snapshots
// and must never mutate one in place.
type EconomyConfig struct {
	Version            int64                  `json:"version"`
	EarningRates       map[ActionType]float64 `json:"earning_rates"`
	DailyLimits        map[ActionType]int     `json:"daily_limits"`
	GlobalMargin       float64                `json:"global_margin"`
	PointsPerDollar    int64                  `json:"points_per_dollar"`
	CountryMultipliers map[string]float64     `json:"country_multipliers"`

	MinWithdrawalPoints int64   `json:"min_withdrawal_points"`
	MaxMultiplier       float64 `json:"max_multiplier"`
	ReferralFactor      float64 `json:"referral_factor"`

	StreakTiers []StreakTier `json:"streak_tiers"`
	HappyHours  []HappyHour  `json:"happy_hours"`

	// Withdrawal ceilings feed the risk scorer's proximity signal.
	DailyWithdrawalCeiling  int64 `json:"daily_withdrawal_ceiling"`
	WeeklyWithdrawalCeiling int64 `json:"weekly_withdrawal_ceiling"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Validate rejects configs that would corrupt downstream arithmetic.
// PointsPerDollar and GlobalMargin are division factors and must never be
// zero; every numeric lever must be non-negative.
func (c *EconomyConfig) Validate() error {
	if c.PointsPerDollar <= 0 {
		return fmt.Errorf("points_per_dollar must be positive, got %d", c.PointsPerDollar)
	}
	if c.GlobalMargin < 0.1 || c.GlobalMargin > 2.0 {
		return fmt.Errorf("global_margin must be within [0.1, 2.0], got %g", c.GlobalMargin)
	}
	if c.MinWithdrawalPoints < 0 {
		return fmt.Errorf("min_withdrawal_points must be non-negative, got %d", c.MinWithdrawalPoints)
	}
	if c.MaxMultiplier <= 0 {
		return fmt.Errorf("max_multiplier must be positive, got %g", c.MaxMultiplier)
	}
	if c.ReferralFactor < 0 {
		return fmt.Errorf("referral_factor must be non-negative, got %g", c.ReferralFactor)
	}
	if c.DailyWithdrawalCeiling < 0 || c.WeeklyWithdrawalCeiling < 0 {
		return fmt.Errorf("withdrawal ceilings must be non-negative")
	}
	for action, rate := range c.EarningRates {
		if !action.Known() {
			return fmt.Errorf("earning rate for unknown action %q", action)
		}
		if rate < 0 {
			return fmt.Errorf("earning rate for %s must be non-negative, got %g", action, rate)
		}
	}
	for action, limit := range c.DailyLimits {
		if !action.Known() {
			return fmt.Errorf("daily limit for unknown action %q", action)
		}
		if limit < 0 {
			return fmt.Errorf("daily limit for %s must be non-negative, got %d", action, limit)
		}
	}
	for country, factor := range c.CountryMultipliers {
		if factor < 0 {
			return fmt.Errorf("country multiplier for %s must be non-negative, got %g", country, factor)
		}
	}
	for _, tier := range c.StreakTiers {
		if tier.MinDays < 0 || tier.Factor < 0 {
			return fmt.Errorf("invalid streak tier %+v", tier)
		}
	}
	for _, window := range c.HappyHours {
		if window.StartHour < 0 || window.EndHour > 24 || window.StartHour >= window.EndHour {
			return fmt.Errorf("invalid happy hour window %+v", window)
		}
		if window.Factor < 0 {
			return fmt.Errorf("happy hour factor must be non-negative, got %g", window.Factor)
		}
	}
	return nil
}

// CountryMultiplier returns the configured factor for a country,
// defaulting to 1.0 when the country is unconfigured.
func (c *EconomyConfig) CountryMultiplier(country string) float64 {
	if factor, ok := c.CountryMultipliers[country]; ok {
		return factor
	}
	return 1.0
}
