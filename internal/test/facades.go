package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/earnwell/economy/internal/adapter/payout"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/usecase"
)

// EarningFacadeStub provides controllable behaviour for earning endpoints.
type EarningFacadeStub struct {
	GrantFn    func(context.Context, int64, model.ActionType) (*model.EarningEvent, error)
	EarningsFn func(context.Context, int64, int) ([]model.EarningEvent, error)
	OverviewFn func(context.Context, int64) (*model.Wallet, *model.EarningSummary, error)
}

// GrantEarning delegates to provided function or returns a default event.
func (s EarningFacadeStub) GrantEarning(ctx context.Context, userID int64, action model.ActionType) (*model.EarningEvent, error) {
	if s.GrantFn != nil {
		return s.GrantFn(ctx, userID, action)
	}
	return &model.EarningEvent{ID: 1, UserID: userID, ActionType: action, BasePoints: 5, FinalPoints: 5}, nil
}

// Earnings returns predefined events for the given user.
func (s EarningFacadeStub) Earnings(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error) {
	if s.EarningsFn != nil {
		return s.EarningsFn(ctx, userID, limit)
	}
	return []model.EarningEvent{{ID: 1, UserID: userID, ActionType: model.ActionTrivia, FinalPoints: 6}}, nil
}

// WalletOverview returns stored wallet data or defaults.
func (s EarningFacadeStub) WalletOverview(ctx context.Context, userID int64) (*model.Wallet, *model.EarningSummary, error) {
	if s.OverviewFn != nil {
		return s.OverviewFn(ctx, userID)
	}
	return &model.Wallet{UserID: userID, TotalPoints: 100, Buckets: map[model.ActionType]int64{}},
		&model.EarningSummary{UserID: userID, BySource: map[model.ActionType]int64{model.ActionTrivia: 100}, Total: 100, EventsNum: 1}, nil
}

// WithdrawalFacadeStub simulates user withdrawal operations.
type WithdrawalFacadeStub struct {
	CreateFn      func(context.Context, usecase.CreateWithdrawalInput) (*model.WithdrawalRequest, error)
	QuoteFn       func(context.Context, int64, int64) (decimal.Decimal, error)
	WithdrawalsFn func(context.Context, int64) ([]model.WithdrawalRequest, error)
}

// CreateWithdrawal executes configured creation handler.
func (s WithdrawalFacadeStub) CreateWithdrawal(ctx context.Context, in usecase.CreateWithdrawalInput) (*model.WithdrawalRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return &model.WithdrawalRequest{
		ID:           1,
		UserID:       in.UserID,
		AmountPoints: in.AmountPoints,
		AmountUSD:    decimal.RequireFromString("0.40"),
		Method:       in.Method,
		Status:       model.WithdrawalStatusPending,
	}, nil
}

// QuoteWithdrawal returns a fixed estimate.
func (s WithdrawalFacadeStub) QuoteWithdrawal(ctx context.Context, userID, points int64) (decimal.Decimal, error) {
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, userID, points)
	}
	return decimal.RequireFromString("0.40"), nil
}

// Withdrawals returns preconfigured history.
func (s WithdrawalFacadeStub) Withdrawals(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	if s.WithdrawalsFn != nil {
		return s.WithdrawalsFn(ctx, userID)
	}
	return []model.WithdrawalRequest{{
		ID:           1,
		UserID:       userID,
		AmountPoints: 5000,
		AmountUSD:    decimal.RequireFromString("0.40"),
		Method:       model.PayPal{Email: "user@example.com"},
		Status:       model.WithdrawalStatusPending,
	}}, nil
}

// AdminFacadeStub simulates the role-gated admin surface.
type AdminFacadeStub struct {
	ConfigFn       func(context.Context) (*model.EconomyConfig, error)
	UpdateConfigFn func(context.Context, *model.EconomyConfig) (*model.EconomyConfig, error)
	ByStatusFn     func(context.Context, model.WithdrawalStatus, int) ([]model.WithdrawalRequest, error)
	ApproveFn      func(context.Context, int64, int64, string) (*model.WithdrawalRequest, error)
	RejectFn       func(context.Context, int64, int64, string) (*model.WithdrawalRequest, error)
	BoostFn        func(context.Context, int64, float64, time.Duration) error
}

// EconomyConfig returns the stubbed config.
func (s AdminFacadeStub) EconomyConfig(ctx context.Context) (*model.EconomyConfig, error) {
	if s.ConfigFn != nil {
		return s.ConfigFn(ctx)
	}
	return &model.EconomyConfig{Version: 1, PointsPerDollar: 12500, GlobalMargin: 1.0}, nil
}

// UpdateEconomyConfig echoes the submitted config.
func (s AdminFacadeStub) UpdateEconomyConfig(ctx context.Context, cfg *model.EconomyConfig) (*model.EconomyConfig, error) {
	if s.UpdateConfigFn != nil {
		return s.UpdateConfigFn(ctx, cfg)
	}
	saved := *cfg
	saved.Version = cfg.Version + 1
	return &saved, nil
}

// WithdrawalsByStatus returns stubbed review queues.
func (s AdminFacadeStub) WithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error) {
	if s.ByStatusFn != nil {
		return s.ByStatusFn(ctx, status, limit)
	}
	return nil, nil
}

// ApproveWithdrawal executes configured approval handler.
func (s AdminFacadeStub) ApproveWithdrawal(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id, adminID, note)
	}
	return &model.WithdrawalRequest{
		ID:        id,
		AmountUSD: decimal.RequireFromString("0.40"),
		Method:    model.PayPal{Email: "user@example.com"},
		Status:    model.WithdrawalStatusProcessing,
	}, nil
}

// RejectWithdrawal executes configured rejection handler.
func (s AdminFacadeStub) RejectWithdrawal(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, id, adminID, reason)
	}
	return &model.WithdrawalRequest{
		ID:              id,
		AmountUSD:       decimal.RequireFromString("0.40"),
		Method:          model.PayPal{Email: "user@example.com"},
		Status:          model.WithdrawalStatusRejected,
		RejectionReason: reason,
	}, nil
}

// GrantBoost executes configured boost handler.
func (s AdminFacadeStub) GrantBoost(ctx context.Context, userID int64, factor float64, ttl time.Duration) error {
	if s.BoostFn != nil {
		return s.BoostFn(ctx, userID, factor, ttl)
	}
	return nil
}

// EconomyFacadeStub aggregates facade dependencies for HTTP layer tests.
type EconomyFacadeStub struct {
	AuthFacadeStub
	EarningFacadeStub
	WithdrawalFacadeStub
	AdminFacadeStub
}

// PayoutCall stores information about SubmitPayout invocations.
type PayoutCall struct {
	Order payout.Order
}

// SettleCall stores information about SettleWithdrawal invocations.
type SettleCall struct {
	ID int64
}

// SettlementFacadeStub mimics worker interactions with the economy facade.
type SettlementFacadeStub struct {
	Batches        [][]model.WithdrawalRequest
	BatchesFn      func(context.Context, int) ([]model.WithdrawalRequest, error)
	SubmitFn       func(context.Context, payout.Order) (*payout.Receipt, error)
	SettleFn       func(context.Context, int64) error
	Submitted      []PayoutCall
	Settled        []SettleCall
	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SettlementFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SettlementFacadeStub) Unlock() { s.mu.Unlock() }

// WithdrawalsForSettlement returns batches from configured queue.
func (s *SettlementFacadeStub) WithdrawalsForSettlement(ctx context.Context, limit int) ([]model.WithdrawalRequest, error) {
	if s.BatchesFn != nil {
		return s.BatchesFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// SubmitPayout records submission calls.
func (s *SettlementFacadeStub) SubmitPayout(ctx context.Context, order payout.Order) (*payout.Receipt, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submitted = append(s.Submitted, PayoutCall{Order: order})
	return &payout.Receipt{Reference: order.Reference, Status: payout.StatusAccepted}, nil
}

// SettleWithdrawal records settlement calls.
func (s *SettlementFacadeStub) SettleWithdrawal(ctx context.Context, id int64) error {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Settled = append(s.Settled, SettleCall{ID: id})
	return nil
}

// PayoutProviderStub submits payout orders for tests.
type PayoutProviderStub struct {
	SubmitFn func(context.Context, payout.Order) (*payout.Receipt, error)
	Receipt  *payout.Receipt
	Err      error
}

// Submit returns configured response or default acceptance.
func (s PayoutProviderStub) Submit(ctx context.Context, order payout.Order) (*payout.Receipt, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, order)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Receipt != nil {
		return s.Receipt, nil
	}
	return &payout.Receipt{Reference: order.Reference, Status: payout.StatusAccepted}, nil
}
