package usecase

import (
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// Risk signal names exposed to the reviewing analyst.
const (
	SignalNewAccount        = "new_account"
	SignalYoungAccount      = "young_account"
	SignalFirstWithdrawal   = "first_withdrawal"
	SignalEarningSpike24h   = "earning_spike_24h"
	SignalEarningSpike7d    = "earning_spike_7d"
	SignalSharedFingerprint = "shared_fingerprint"
	SignalFingerprintRing   = "fingerprint_ring"
	SignalNearDailyCeiling  = "near_daily_ceiling"
	SignalNearWeeklyCeiling = "near_weekly_ceiling"
	SignalEmailUnverified   = "email_unverified"
	SignalPhoneUnverified   = "phone_unverified"
)

// Independent signal weights. The sum is clamped to [0, 100].
const (
	weightNewAccount        = 30
	weightYoungAccount      = 15
	weightFirstWithdrawal   = 10
	weightEarningSpike24h   = 20
	weightEarningSpike7d    = 10
	weightSharedFingerprint = 25
	weightFingerprintRing   = 10
	weightNearDailyCeiling  = 10
	weightNearWeeklyCeiling = 5
	weightEmailUnverified   = 5
	weightPhoneUnverified   = 5
)

// An earning rate this many times above the user's trailing daily
// average counts as a velocity spike.
const velocitySpikeRatio = 3.0

// ScoreWithdrawal computes an advisory fraud risk score for a withdrawal
// of amountPoints given a consistent snapshot of the user's history.
// It is pure and deterministic: identical inputs always yield the same
// score and the same signal list in the same order. The score never
// auto-blocks or auto-approves anything; the decision belongs to a human
// reviewer.
func ScoreWithdrawal(cfg *model.EconomyConfig, amountPoints int64, snap *model.RiskSnapshot) (int, []string) {
	score := 0
	signals := []string{}

	add := func(name string, weight int) {
		score += weight
		signals = append(signals, name)
	}

	switch {
	case snap.AccountAge < 24*time.Hour:
		add(SignalNewAccount, weightNewAccount)
	case snap.AccountAge < 7*24*time.Hour:
		add(SignalYoungAccount, weightYoungAccount)
	}

	if snap.PriorWithdrawals == 0 {
		add(SignalFirstWithdrawal, weightFirstWithdrawal)
	}

	if avg := snap.TrailingDailyAverage; avg > 0 {
		if float64(snap.Earned24h) > velocitySpikeRatio*avg {
			add(SignalEarningSpike24h, weightEarningSpike24h)
		}
		if float64(snap.Earned7d) > velocitySpikeRatio*7*avg {
			add(SignalEarningSpike7d, weightEarningSpike7d)
		}
	}

	if snap.SharedFingerprintUsers > 0 {
		add(SignalSharedFingerprint, weightSharedFingerprint)
		if snap.SharedFingerprintUsers >= 3 {
			add(SignalFingerprintRing, weightFingerprintRing)
		}
	}

	if nearCeiling(amountPoints, cfg.DailyWithdrawalCeiling) {
		add(SignalNearDailyCeiling, weightNearDailyCeiling)
	}
	if nearCeiling(amountPoints, cfg.WeeklyWithdrawalCeiling) {
		add(SignalNearWeeklyCeiling, weightNearWeeklyCeiling)
	}

	if !snap.EmailVerified {
		add(SignalEmailUnverified, weightEmailUnverified)
	}
	if !snap.PhoneVerified {
		add(SignalPhoneUnverified, weightPhoneUnverified)
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, signals
}

// nearCeiling reports whether amount is within 10% of the ceiling.
func nearCeiling(amount, ceiling int64) bool {
	return ceiling > 0 && amount*10 >= ceiling*9
}
