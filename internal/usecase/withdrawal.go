package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/domain/repository"
)

// WithdrawalUseCase owns the withdrawal request lifecycle: creation with
// point reservation, risk scoring and quote freezing, and the
// admin-gated approve/reject/settle transitions.
type WithdrawalUseCase struct {
	withdrawals repository.WithdrawalRepository
	configs     *ConfigCache
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(withdrawals repository.WithdrawalRepository, configs *ConfigCache) *WithdrawalUseCase {
	return &WithdrawalUseCase{withdrawals: withdrawals, configs: configs}
}

// CreateWithdrawalInput carries a user's withdrawal request together
// with the origin fingerprints used for fraud detection.
type CreateWithdrawalInput struct {
	UserID       int64
	AmountPoints int64
	Method       model.WithdrawalMethod
	Country      string
	DeviceID     string
	IP           string
}

// Create validates the request, freezes a USD quote, scores it for
// fraud risk and reserves the points, all within one transaction. The
// reservation at creation time (not at settlement) is what prevents two
// concurrent requests from spending the same balance twice.
func (u *WithdrawalUseCase) Create(ctx context.Context, in CreateWithdrawalInput) (*model.WithdrawalRequest, error) {
	if in.Method == nil {
		return nil, domainErrors.ErrUnsupportedMethod
	}
	if err := in.Method.Validate(); err != nil {
		return nil, err
	}

	cfg, err := u.configs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if in.AmountPoints <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domainErrors.ErrInvalidAmount)
	}
	if in.AmountPoints < cfg.MinWithdrawalPoints {
		return nil, fmt.Errorf("%w: minimum withdrawal is %d points", domainErrors.ErrInvalidAmount, cfg.MinWithdrawalPoints)
	}

	amountUSD, err := ToUSD(cfg, in.AmountPoints, in.Country)
	if err != nil {
		return nil, err
	}

	fp := model.Fingerprints{
		DeviceID:   in.DeviceID,
		IP:         in.IP,
		PaymentKey: in.Method.PaymentFingerprint(),
	}

	return u.withdrawals.Create(ctx, in.UserID, fp, func(wallet *model.Wallet, snap *model.RiskSnapshot) (*model.WithdrawalRequest, error) {
		if wallet.TotalPoints < in.AmountPoints {
			return nil, fmt.Errorf("%w: balance %d, requested %d", domainErrors.ErrInsufficientBalance, wallet.TotalPoints, in.AmountPoints)
		}

		score, signals := ScoreWithdrawal(cfg, in.AmountPoints, snap)

		return &model.WithdrawalRequest{
			UserID:       in.UserID,
			Reference:    uuid.New(),
			AmountPoints: in.AmountPoints,
			AmountUSD:    amountUSD,
			Method:       in.Method,
			Status:       model.WithdrawalStatusPending,
			RiskScore:    score,
			FraudSignals: signals,
		}, nil
	})
}

// Quote estimates the USD value of a point amount for display. It uses
// the exact conversion applied at creation time.
func (u *WithdrawalUseCase) Quote(ctx context.Context, points int64, country string) (decimal.Decimal, error) {
	cfg, err := u.configs.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return ToUSD(cfg, points, country)
}

// Approve transitions a pending request to processing and records the
// acting admin. The points stay reserved; the settlement worker hands
// the request to the payout collaborator and completes it.
func (u *WithdrawalUseCase) Approve(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error) {
	return u.withdrawals.Approve(ctx, id, adminID, note)
}

// Reject transitions a pending request to rejected and refunds the
// reserved points in the same transaction. A reason is mandatory.
func (u *WithdrawalUseCase) Reject(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainErrors.ErrReasonRequired
	}
	return u.withdrawals.Reject(ctx, id, adminID, reason)
}

// Settle marks a processing request completed after the payout
// collaborator acknowledged it. Settling an already-completed request is
// a no-op so redeliveries stay idempotent.
func (u *WithdrawalUseCase) Settle(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	return u.withdrawals.Settle(ctx, id)
}

// Get fetches a single request.
func (u *WithdrawalUseCase) Get(ctx context.Context, id int64) (*model.WithdrawalRequest, error) {
	return u.withdrawals.GetByID(ctx, id)
}

// History returns the user's withdrawal requests, newest first.
func (u *WithdrawalUseCase) History(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	return u.withdrawals.ListByUser(ctx, userID)
}

// ListByStatus returns requests in the given state for admin review or
// settlement dispatch.
func (u *WithdrawalUseCase) ListByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error) {
	return u.withdrawals.ListByStatus(ctx, status, limit)
}
