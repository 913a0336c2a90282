package usecase

import (
	"context"

	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// WalletUseCase serves the read-side wallet view: the authoritative
// balance plus a per-source summary derived from earning events.
type WalletUseCase struct {
	wallets  repository.WalletRepository
	earnings repository.EarningRepository
}

// NewWalletUseCase constructs WalletUseCase.
func NewWalletUseCase(wallets repository.WalletRepository, earnings repository.EarningRepository) *WalletUseCase {
	return &WalletUseCase{wallets: wallets, earnings: earnings}
}

// Overview returns the wallet together with its earning summary.
func (u *WalletUseCase) Overview(ctx context.Context, userID int64) (*model.Wallet, *model.EarningSummary, error) {
	wallet, err := u.wallets.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := u.earnings.Summary(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return wallet, summary, nil
}

// History returns the most recent earning events for the user.
func (u *WalletUseCase) History(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return u.earnings.ListByUser(ctx, userID, limit)
}
