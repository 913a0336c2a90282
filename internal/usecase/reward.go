package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// RewardUseCase turns completed actions into point awards.
type RewardUseCase struct {
	wallets repository.WalletRepository
	configs *ConfigCache
	now     func() time.Time
}

// NewRewardUseCase constructs RewardUseCase.
func NewRewardUseCase(wallets repository.WalletRepository, configs *ConfigCache) *RewardUseCase {
	return &RewardUseCase{wallets: wallets, configs: configs, now: time.Now}
}

// Grant awards points for one completed action. The daily counter
// increment, balance mutation, earning event append and one-shot boost
// clearing all happen in a single transaction; the grant computation
// itself runs against the locked wallet row so two concurrent grants
// cannot both consume the same boost or slip past the daily cap.
func (u *RewardUseCase) Grant(ctx context.Context, userID int64, action model.ActionType) (*model.EarningEvent, error) {
	if !action.Known() {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownActionType, action)
	}

	cfg, err := u.configs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	base, ok := cfg.EarningRates[action]
	if !ok {
		return nil, fmt.Errorf("%w: no earning rate for %q", domainErrors.ErrUnknownActionType, action)
	}

	now := u.now().UTC()

	// Fast-fail for capped users before opening the write transaction.
	// The locked in-transaction count below stays authoritative.
	if limit, ok := cfg.DailyLimits[action]; ok {
		count, err := u.wallets.DailyCount(ctx, userID, action, now)
		if err != nil {
			return nil, err
		}
		if count >= limit {
			return nil, fmt.Errorf("%w: %s capped at %d per day", domainErrors.ErrDailyLimitExceeded, action, limit)
		}
	}

	return u.wallets.Grant(ctx, userID, action, now, func(wallet *model.Wallet, todayCount int) (*repository.GrantDecision, error) {
		if limit, ok := cfg.DailyLimits[action]; ok && todayCount >= limit {
			return nil, fmt.Errorf("%w: %s capped at %d per day", domainErrors.ErrDailyLimitExceeded, action, limit)
		}

		res := ResolveMultipliers(cfg, action, wallet, now)
		final := int64(math.Round(base * res.Composite))

		return &repository.GrantDecision{
			BasePoints:   base,
			Multipliers:  res.Factors,
			FinalPoints:  final,
			ConsumeBoost: res.BoostConsumed,
		}, nil
	})
}

// GrantBoost attaches a one-shot multiplier to the user's next grant.
func (u *RewardUseCase) GrantBoost(ctx context.Context, userID int64, factor float64, ttl time.Duration) error {
	if factor <= 0 || ttl <= 0 {
		return fmt.Errorf("%w: boost factor and ttl must be positive", domainErrors.ErrInvalidAmount)
	}
	return u.wallets.SetBoost(ctx, userID, model.Boost{
		Factor:    factor,
		ExpiresAt: u.now().UTC().Add(ttl),
	})
}
