package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnwell/economy/internal/adapter/payout"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/usecase"
)

// PayoutProvider submits approved withdrawals to the external payout
// system.
type PayoutProvider interface {
	Submit(ctx context.Context, order payout.Order) (*payout.Receipt, error)
}

// EconomyFacade is the single entry point the transports (HTTP server,
// settlement worker) talk to.
type EconomyFacade struct {
	auth        *usecase.AuthUseCase
	rewards     *usecase.RewardUseCase
	wallets     *usecase.WalletUseCase
	withdrawals *usecase.WithdrawalUseCase
	configs     *usecase.ConfigUseCase
	payouts     PayoutProvider
}

func NewEconomyFacade(
	auth *usecase.AuthUseCase,
	rewards *usecase.RewardUseCase,
	wallets *usecase.WalletUseCase,
	withdrawals *usecase.WithdrawalUseCase,
	configs *usecase.ConfigUseCase,
	payouts PayoutProvider,
) *EconomyFacade {
	return &EconomyFacade{
		auth:        auth,
		rewards:     rewards,
		wallets:     wallets,
		withdrawals: withdrawals,
		configs:     configs,
		payouts:     payouts,
	}
}

func (f *EconomyFacade) Register(ctx context.Context, login, password, country string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, country)
	return token, err
}

func (f *EconomyFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *EconomyFacade) ParseToken(token string) (int64, model.Role, error) {
	return f.auth.ParseToken(token)
}

func (f *EconomyFacade) GrantEarning(ctx context.Context, userID int64, action model.ActionType) (*model.EarningEvent, error) {
	return f.rewards.Grant(ctx, userID, action)
}

func (f *EconomyFacade) GrantBoost(ctx context.Context, userID int64, factor float64, ttl time.Duration) error {
	return f.rewards.GrantBoost(ctx, userID, factor, ttl)
}

func (f *EconomyFacade) WalletOverview(ctx context.Context, userID int64) (*model.Wallet, *model.EarningSummary, error) {
	return f.wallets.Overview(ctx, userID)
}

func (f *EconomyFacade) Earnings(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error) {
	return f.wallets.History(ctx, userID, limit)
}

func (f *EconomyFacade) CreateWithdrawal(ctx context.Context, in usecase.CreateWithdrawalInput) (*model.WithdrawalRequest, error) {
	if in.Country == "" {
		usr, err := f.auth.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		in.Country = usr.Country
	}
	return f.withdrawals.Create(ctx, in)
}

func (f *EconomyFacade) QuoteWithdrawal(ctx context.Context, userID, points int64) (decimal.Decimal, error) {
	usr, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return f.withdrawals.Quote(ctx, points, usr.Country)
}

func (f *EconomyFacade) Withdrawals(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	return f.withdrawals.History(ctx, userID)
}

func (f *EconomyFacade) WithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error) {
	return f.withdrawals.ListByStatus(ctx, status, limit)
}

func (f *EconomyFacade) ApproveWithdrawal(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	return f.withdrawals.Approve(ctx, id, adminID, note)
}

func (f *EconomyFacade) RejectWithdrawal(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error) {
	return f.withdrawals.Reject(ctx, id, adminID, reason)
}

func (f *EconomyFacade) EconomyConfig(ctx context.Context) (*model.EconomyConfig, error) {
	return f.configs.Get(ctx)
}

func (f *EconomyFacade) UpdateEconomyConfig(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error) {
	return f.configs.Update(ctx, cfg)
}

// WithdrawalsForSettlement feeds the settlement worker with approved
// requests waiting for payout.
func (f *EconomyFacade) WithdrawalsForSettlement(ctx context.Context, limit int) ([]model.WithdrawalRequest, error) {
	return f.withdrawals.ListByStatus(ctx, model.WithdrawalStatusProcessing, limit)
}

func (f *EconomyFacade) SubmitPayout(ctx context.Context, order payout.Order) (*payout.Receipt, error) {
	return f.payouts.Submit(ctx, order)
}

func (f *EconomyFacade) SettleWithdrawal(ctx context.Context, id int64) error {
	_, err := f.withdrawals.Settle(ctx, id)
	return err
}
