package repository

import (
	"context"

	"github.com/earnwell/economy/internal/domain/model"
)

// EarningRepository provides read access to the append-only earning
// ledger and its aggregated projection.
type EarningRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.EarningEvent, error)
	Summary(ctx context.Context, userID int64) (*model.EarningSummary, error)
}
