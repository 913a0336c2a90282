package dto

import (
	"encoding/json"
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// WithdrawRequest describes withdrawal creation payload. Details carry
// the method-specific fields and are validated per method kind.
type WithdrawRequest struct {
	AmountPoints int64           `json:"amount_points"`
	Method       string          `json:"method"`
	Details      json.RawMessage `json:"details"`
}

// WithdrawalResponse describes a withdrawal request entry.
type WithdrawalResponse struct {
	ID              int64      `json:"id"`
	Reference       string     `json:"reference"`
	AmountPoints    int64      `json:"amount_points"`
	AmountUSD       string     `json:"amount_usd"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	RiskScore       int        `json:"risk_score"`
	FraudSignals    []string   `json:"fraud_signals,omitempty"`
	AdminNote       string     `json:"admin_note,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewWithdrawalResponse maps a domain withdrawal request to wire form.
func NewWithdrawalResponse(w *model.WithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		ID:              w.ID,
		Reference:       w.Reference.String(),
		AmountPoints:    w.AmountPoints,
		AmountUSD:       w.AmountUSD.StringFixed(2),
		Method:          string(w.Method.Kind()),
		Status:          string(w.Status),
		RiskScore:       w.RiskScore,
		FraudSignals:    w.FraudSignals,
		AdminNote:       w.AdminNote,
		RejectionReason: w.RejectionReason,
		ProcessedAt:     w.ProcessedAt,
		CreatedAt:       w.CreatedAt,
	}
}

// QuoteResponse is the display-only USD estimate for a point amount.
type QuoteResponse struct {
	AmountPoints int64  `json:"amount_points"`
	AmountUSD    string `json:"amount_usd"`
}
