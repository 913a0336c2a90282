package repository

import (
	"context"
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// GrantDecision is the outcome of the pure grant computation performed
// against in-transaction wallet state.
type GrantDecision struct {
	BasePoints   float64
	Multipliers  []model.AppliedMultiplier
	FinalPoints  int64
	ConsumeBoost bool
}

// GrantFunc computes a grant decision from the locked wallet row and the
// user's counter for (action, day). Returning an error aborts the
// transaction without mutating any state.
type GrantFunc func(wallet *model.Wallet, todayCount int) (*GrantDecision, error)

// WalletRepository manages user economy state. Grant executes the full
// award atomically: daily counter increment, balance and bucket update,
// earning event append and one-shot boost clearing happen in a single
// transaction.
type WalletRepository interface {
	Get(ctx context.Context, userID int64) (*model.Wallet, error)
	Grant(ctx context.Context, userID int64, action model.ActionType, at time.Time, fn GrantFunc) (*model.EarningEvent, error)
	DailyCount(ctx context.Context, userID int64, action model.ActionType, day time.Time) (int, error)
	SetBoost(ctx context.Context, userID int64, boost model.Boost) error
}
