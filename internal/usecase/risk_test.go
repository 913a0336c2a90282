package usecase_test

import (
	. "github.com/earnwell/economy/internal/usecase"

	"reflect"
	"testing"
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

func trustedSnapshot() *model.RiskSnapshot {
	return &model.RiskSnapshot{
		AccountAge:           90 * 24 * time.Hour,
		PriorWithdrawals:     5,
		Earned24h:            100,
		Earned7d:             700,
		TrailingDailyAverage: 100,
		EmailVerified:        true,
		PhoneVerified:        true,
	}
}

func TestScoreWithdrawalTrustedUser(t *testing.T) {
	cfg := &model.EconomyConfig{DailyWithdrawalCeiling: 100000, WeeklyWithdrawalCeiling: 500000}
	score, signals := ScoreWithdrawal(cfg, 5000, trustedSnapshot())
	if score != 0 {
		t.Fatalf("expected zero score for trusted user, got %d with %v", score, signals)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no signals, got %v", signals)
	}
}

func TestScoreWithdrawalDeterministic(t *testing.T) {
	cfg := &model.EconomyConfig{DailyWithdrawalCeiling: 10000}
	snap := &model.RiskSnapshot{
		AccountAge:             3 * 24 * time.Hour,
		PriorWithdrawals:       0,
		Earned24h:              900,
		Earned7d:               1500,
		TrailingDailyAverage:   200,
		SharedFingerprintUsers: 1,
	}

	score1, signals1 := ScoreWithdrawal(cfg, 9500, snap)
	score2, signals2 := ScoreWithdrawal(cfg, 9500, snap)
	if score1 != score2 {
		t.Fatalf("scores differ: %d vs %d", score1, score2)
	}
	if !reflect.DeepEqual(signals1, signals2) {
		t.Fatalf("signal order differs: %v vs %v", signals1, signals2)
	}
}

func TestScoreWithdrawalAccountAgeTiers(t *testing.T) {
	cfg := &model.EconomyConfig{}

	snap := trustedSnapshot()
	snap.AccountAge = 2 * time.Hour
	_, signals := ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalNewAccount) || containsSignal(signals, SignalYoungAccount) {
		t.Fatalf("expected only new_account, got %v", signals)
	}

	snap.AccountAge = 3 * 24 * time.Hour
	_, signals = ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalYoungAccount) || containsSignal(signals, SignalNewAccount) {
		t.Fatalf("expected only young_account, got %v", signals)
	}
}

func TestScoreWithdrawalVelocitySpike(t *testing.T) {
	cfg := &model.EconomyConfig{}
	snap := trustedSnapshot()
	snap.Earned24h = 301
	snap.TrailingDailyAverage = 100

	score, signals := ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalEarningSpike24h) {
		t.Fatalf("expected 24h spike, got %v", signals)
	}
	if score != 20 {
		t.Fatalf("expected score 20, got %d", score)
	}

	// No trailing history means no velocity baseline; the spike signals
	// must stay silent instead of firing on division noise.
	snap.TrailingDailyAverage = 0
	_, signals = ScoreWithdrawal(cfg, 1000, snap)
	if containsSignal(signals, SignalEarningSpike24h) || containsSignal(signals, SignalEarningSpike7d) {
		t.Fatalf("expected no spike signals without baseline, got %v", signals)
	}
}

func TestScoreWithdrawalFingerprintRing(t *testing.T) {
	cfg := &model.EconomyConfig{}

	snap := trustedSnapshot()
	snap.SharedFingerprintUsers = 1
	_, signals := ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalSharedFingerprint) || containsSignal(signals, SignalFingerprintRing) {
		t.Fatalf("expected shared only, got %v", signals)
	}

	snap.SharedFingerprintUsers = 3
	_, signals = ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalSharedFingerprint) || !containsSignal(signals, SignalFingerprintRing) {
		t.Fatalf("expected shared and ring, got %v", signals)
	}
}

func TestScoreWithdrawalCeilingProximity(t *testing.T) {
	cfg := &model.EconomyConfig{DailyWithdrawalCeiling: 10000, WeeklyWithdrawalCeiling: 50000}

	_, signals := ScoreWithdrawal(cfg, 8000, trustedSnapshot())
	if containsSignal(signals, SignalNearDailyCeiling) {
		t.Fatalf("80%% of ceiling must not trigger, got %v", signals)
	}

	_, signals = ScoreWithdrawal(cfg, 9000, trustedSnapshot())
	if !containsSignal(signals, SignalNearDailyCeiling) {
		t.Fatalf("90%% of ceiling must trigger, got %v", signals)
	}
	if containsSignal(signals, SignalNearWeeklyCeiling) {
		t.Fatalf("weekly ceiling is far, got %v", signals)
	}

	_, signals = ScoreWithdrawal(cfg, 45000, trustedSnapshot())
	if !containsSignal(signals, SignalNearWeeklyCeiling) {
		t.Fatalf("expected weekly ceiling proximity, got %v", signals)
	}
}

func TestScoreWithdrawalClampedAt100(t *testing.T) {
	cfg := &model.EconomyConfig{DailyWithdrawalCeiling: 1000, WeeklyWithdrawalCeiling: 1000}
	snap := &model.RiskSnapshot{
		AccountAge:             time.Hour,
		PriorWithdrawals:       0,
		Earned24h:              1000,
		Earned7d:               3000,
		TrailingDailyAverage:   100,
		SharedFingerprintUsers: 4,
	}

	score, signals := ScoreWithdrawal(cfg, 1000, snap)
	if score != 100 {
		t.Fatalf("expected score clamped to 100, got %d with %v", score, signals)
	}
}

func TestScoreWithdrawalUnverifiedContacts(t *testing.T) {
	cfg := &model.EconomyConfig{}
	snap := trustedSnapshot()
	snap.EmailVerified = false
	snap.PhoneVerified = false

	score, signals := ScoreWithdrawal(cfg, 1000, snap)
	if !containsSignal(signals, SignalEmailUnverified) || !containsSignal(signals, SignalPhoneUnverified) {
		t.Fatalf("expected verification signals, got %v", signals)
	}
	if score != 10 {
		t.Fatalf("expected score 10, got %d", score)
	}
}

func containsSignal(signals []string, name string) bool {
	for _, s := range signals {
		if s == name {
			return true
		}
	}
	return false
}
