package usecase_test

import (
	. "github.com/earnwell/economy/internal/usecase"

	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
	testhelpers "github.com/earnwell/economy/internal/test"
)

func rewardConfig() *model.EconomyConfig {
	return &model.EconomyConfig{
		EarningRates: map[model.ActionType]float64{
			model.ActionWatchAd: 5,
			model.ActionTrivia:  12,
		},
		DailyLimits:   map[model.ActionType]int{model.ActionWatchAd: 2},
		MaxMultiplier: 5.0,
		StreakTiers:   []model.StreakTier{{MinDays: 3, Factor: 1.2}},
	}
}

func newRewardUseCase(wallets *testhelpers.WalletRepositoryStub, cfg *model.EconomyConfig) *RewardUseCase {
	cache := NewConfigCache(&testhelpers.ConfigRepositoryStub{Config: cfg}, time.Minute)
	return NewRewardUseCase(wallets, cache)
}

func TestRewardUseCaseGrantBase(t *testing.T) {
	wallets := &testhelpers.WalletRepositoryStub{}
	uc := newRewardUseCase(wallets, rewardConfig())

	event, err := uc.Grant(context.Background(), 1, model.ActionWatchAd)
	if err != nil {
		t.Fatalf("grant returned error: %v", err)
	}
	if event.BasePoints != 5 || event.FinalPoints != 5 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if wallets.Wallet.TotalPoints != 5 {
		t.Fatalf("expected balance 5, got %d", wallets.Wallet.TotalPoints)
	}
	if wallets.Wallet.Buckets[model.ActionWatchAd] != 5 {
		t.Fatalf("expected bucket credit, got %+v", wallets.Wallet.Buckets)
	}
}

func TestRewardUseCaseGrantRoundsHalfUp(t *testing.T) {
	wallets := &testhelpers.WalletRepositoryStub{
		Wallet: &model.Wallet{UserID: 1, DailyStreak: 3, Buckets: map[model.ActionType]int64{}},
	}
	uc := newRewardUseCase(wallets, rewardConfig())
	uc.SetNow(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) })

	// LastEarnedAt yesterday advances the streak to 4, keeping the 1.2 tier.
	yesterday := time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)
	wallets.Wallet.LastEarnedAt = &yesterday

	event, err := uc.Grant(context.Background(), 1, model.ActionWatchAd)
	if err != nil {
		t.Fatalf("grant returned error: %v", err)
	}
	if event.FinalPoints != 6 {
		t.Fatalf("expected round(5*1.2)=6, got %d", event.FinalPoints)
	}
	if len(event.Multipliers) != 1 || event.Multipliers[0].Name != MultiplierStreak {
		t.Fatalf("expected streak attribution, got %+v", event.Multipliers)
	}
}

func TestRewardUseCaseGrantDailyCap(t *testing.T) {
	wallets := &testhelpers.WalletRepositoryStub{TodayCount: 2}
	uc := newRewardUseCase(wallets, rewardConfig())

	if _, err := uc.Grant(context.Background(), 1, model.ActionWatchAd); !errors.Is(err, domainErrors.ErrDailyLimitExceeded) {
		t.Fatalf("expected daily limit error, got %v", err)
	}

	// Trivia has no configured cap and stays grantable.
	if _, err := uc.Grant(context.Background(), 1, model.ActionTrivia); err != nil {
		t.Fatalf("uncapped action failed: %v", err)
	}
}

func TestRewardUseCaseGrantDailyCapSkipsTransaction(t *testing.T) {
	granted := false
	wallets := &testhelpers.WalletRepositoryStub{
		TodayCount: 2,
		GrantFn: func(context.Context, int64, model.ActionType, time.Time, repository.GrantFunc) (*model.EarningEvent, error) {
			granted = true
			return nil, errors.New("must not be reached")
		},
	}
	uc := newRewardUseCase(wallets, rewardConfig())

	if _, err := uc.Grant(context.Background(), 1, model.ActionWatchAd); !errors.Is(err, domainErrors.ErrDailyLimitExceeded) {
		t.Fatalf("expected daily limit error, got %v", err)
	}
	if granted {
		t.Fatal("capped grant must not open a write transaction")
	}
}

func TestRewardUseCaseGrantDailyCapRacedInTransaction(t *testing.T) {
	// The precheck sees remaining quota, but a concurrent grant fills the
	// cap before the transaction reads the locked counter.
	wallets := &testhelpers.WalletRepositoryStub{
		TodayCount: 2,
		DailyCountFn: func(context.Context, int64, model.ActionType, time.Time) (int, error) {
			return 1, nil
		},
	}
	uc := newRewardUseCase(wallets, rewardConfig())

	if _, err := uc.Grant(context.Background(), 1, model.ActionWatchAd); !errors.Is(err, domainErrors.ErrDailyLimitExceeded) {
		t.Fatalf("expected daily limit error from transaction, got %v", err)
	}
	if wallets.Wallet != nil && wallets.Wallet.TotalPoints != 0 {
		t.Fatalf("capped grant must not credit points, got %d", wallets.Wallet.TotalPoints)
	}
}

func TestRewardUseCaseGrantConsumesBoost(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	wallets := &testhelpers.WalletRepositoryStub{
		Wallet: &model.Wallet{
			UserID:  1,
			Buckets: map[model.ActionType]int64{},
			Boost:   &model.Boost{Factor: 2.0, ExpiresAt: at.Add(time.Hour)},
		},
	}
	uc := newRewardUseCase(wallets, rewardConfig())
	uc.SetNow(func() time.Time { return at })

	event, err := uc.Grant(context.Background(), 1, model.ActionWatchAd)
	if err != nil {
		t.Fatalf("grant returned error: %v", err)
	}
	if event.FinalPoints != 10 {
		t.Fatalf("expected boosted 10 points, got %d", event.FinalPoints)
	}
	if wallets.Wallet.Boost != nil {
		t.Fatal("expected one-shot boost cleared after grant")
	}

	// The next grant runs without the boost.
	event, err = uc.Grant(context.Background(), 1, model.ActionWatchAd)
	if err != nil {
		t.Fatalf("second grant returned error: %v", err)
	}
	if event.FinalPoints != 5 {
		t.Fatalf("expected unboosted 5 points, got %d", event.FinalPoints)
	}
}

func TestRewardUseCaseGrantUnknownAction(t *testing.T) {
	uc := newRewardUseCase(&testhelpers.WalletRepositoryStub{}, rewardConfig())
	if _, err := uc.Grant(context.Background(), 1, "mine_bitcoin"); !errors.Is(err, domainErrors.ErrUnknownActionType) {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestRewardUseCaseGrantUnconfiguredRate(t *testing.T) {
	uc := newRewardUseCase(&testhelpers.WalletRepositoryStub{}, rewardConfig())
	if _, err := uc.Grant(context.Background(), 1, model.ActionSurvey); !errors.Is(err, domainErrors.ErrUnknownActionType) {
		t.Fatalf("expected unknown action error for missing rate, got %v", err)
	}
}

func TestRewardUseCaseGrantFailsClosedWithoutConfig(t *testing.T) {
	cache := NewConfigCache(&testhelpers.ConfigRepositoryStub{}, time.Minute)
	uc := NewRewardUseCase(&testhelpers.WalletRepositoryStub{}, cache)
	if _, err := uc.Grant(context.Background(), 1, model.ActionWatchAd); !errors.Is(err, domainErrors.ErrConfigUnavailable) {
		t.Fatalf("expected config unavailable, got %v", err)
	}
}

func TestRewardUseCaseGrantBoost(t *testing.T) {
	wallets := &testhelpers.WalletRepositoryStub{}
	uc := newRewardUseCase(wallets, rewardConfig())
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uc.SetNow(func() time.Time { return at })

	if err := uc.GrantBoost(context.Background(), 1, 2.0, time.Hour); err != nil {
		t.Fatalf("grant boost returned error: %v", err)
	}
	if len(wallets.Boosts) != 1 {
		t.Fatalf("expected one boost, got %d", len(wallets.Boosts))
	}
	if !wallets.Boosts[0].ExpiresAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("unexpected boost expiry %v", wallets.Boosts[0].ExpiresAt)
	}

	if err := uc.GrantBoost(context.Background(), 1, 0, time.Hour); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero factor, got %v", err)
	}
	if err := uc.GrantBoost(context.Background(), 1, 2.0, 0); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero ttl, got %v", err)
	}
}
