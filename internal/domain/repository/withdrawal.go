package repository

import (
	"context"

	"github.com/earnwell/economy/internal/domain/model"
)

// WithdrawalBuildFunc assembles a withdrawal request from the locked
// wallet row and a consistent risk snapshot. Returning an error aborts
// the transaction; no points are reserved and nothing is recorded.
type WithdrawalBuildFunc func(wallet *model.Wallet, snap *model.RiskSnapshot) (*model.WithdrawalRequest, error)

// WithdrawalRepository owns the withdrawal lifecycle. Create reserves
// points (decrements the balance) in the same transaction that inserts
// the pending request; Reject refunds them with the status change.
type WithdrawalRepository interface {
	Create(ctx context.Context, userID int64, fp model.Fingerprints, build WithdrawalBuildFunc) (*model.WithdrawalRequest, error)
	GetByID(ctx context.Context, id int64) (*model.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error)
	ListByStatus(ctx context.Context, status model.WithdrawalStatus, limit int) ([]model.WithdrawalRequest, error)
	Approve(ctx context.Context, id, adminID int64, note string) (*model.WithdrawalRequest, error)
	Reject(ctx context.Context, id, adminID int64, reason string) (*model.WithdrawalRequest, error)
	Settle(ctx context.Context, id int64) (*model.WithdrawalRequest, error)
}
