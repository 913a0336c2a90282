package dto

import (
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// WalletResponse represents the user's wallet view.
type WalletResponse struct {
	TotalPoints int64            `json:"total_points"`
	BySource    map[string]int64 `json:"by_source"`
	DailyStreak int              `json:"daily_streak"`
	Boost       *BoostResponse   `json:"boost,omitempty"`
	EventsNum   int              `json:"events_num"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BoostResponse describes an active one-shot boost.
type BoostResponse struct {
	Factor    float64   `json:"factor"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewWalletResponse maps a wallet and its earning summary to wire form.
func NewWalletResponse(wallet *model.Wallet, summary *model.EarningSummary, now time.Time) WalletResponse {
	bySource := make(map[string]int64, len(summary.BySource))
	for action, points := range summary.BySource {
		bySource[string(action)] = points
	}
	resp := WalletResponse{
		TotalPoints: wallet.TotalPoints,
		BySource:    bySource,
		DailyStreak: wallet.DailyStreak,
		EventsNum:   summary.EventsNum,
		UpdatedAt:   wallet.UpdatedAt,
	}
	if wallet.Boost.Active(now) {
		resp.Boost = &BoostResponse{Factor: wallet.Boost.Factor, ExpiresAt: wallet.Boost.ExpiresAt}
	}
	return resp
}
