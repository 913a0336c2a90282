package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, country string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, model.Role, error)
}

// EarningFacade encapsulates point-award operations exposed via HTTP.
type EarningFacade interface {
	GrantEarning(ctx context.Context, userID int64, action model.ActionType) (*model.EarningEvent, error)
	Earnings(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error)
	WalletOverview(ctx context.Context, userID int64) (*model.Wallet, *model.EarningSummary, error)
}

// WithdrawalFacade provides withdrawal lifecycle operations.
type WithdrawalFacade interface {
	CreateWithdrawal(ctx context.Context, in usecase.CreateWithdrawalInput) (*model.WithdrawalRequest, error)
	QuoteWithdrawal(ctx context.Context, userID, points int64) (decimal.Decimal, error)
	Withdrawals(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error)
}

// AdminFacade provides the role-gated configuration and review surface.
type AdminFacade interface {
	EconomyConfig(ctx context.Context) (*model.EconomyConfig, error)
	UpdateEconomyConfig(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error)
	WithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error)
	ApproveWithdrawal(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error)
	GrantBoost(ctx context.Context, userID int64, factor float64, ttl time.Duration) error
}

// EconomyFacade aggregates the full set of operations used across handlers.
type EconomyFacade interface {
	AuthFacade
	EarningFacade
	WithdrawalFacade
	AdminFacade
}
