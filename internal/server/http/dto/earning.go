package dto

import (
	"time"

	"github.com/earnwell/economy/internal/domain/model"
)

// EarnRequest reports a completed user action.
type EarnRequest struct {
	Action string `json:"action"`
}

// AppliedMultiplierResponse is one named factor in the audit trail.
type AppliedMultiplierResponse struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// EarningResponse describes a single points award.
type EarningResponse struct {
	ID          int64                       `json:"id"`
	Action      string                      `json:"action"`
	BasePoints  float64                     `json:"base_points"`
	Multipliers []AppliedMultiplierResponse `json:"multipliers"`
	FinalPoints int64                       `json:"final_points"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// NewEarningResponse maps a domain earning event to its wire form.
func NewEarningResponse(e *model.EarningEvent) EarningResponse {
	multipliers := make([]AppliedMultiplierResponse, 0, len(e.Multipliers))
	for _, m := range e.Multipliers {
		multipliers = append(multipliers, AppliedMultiplierResponse{Name: m.Name, Factor: m.Factor})
	}
	return EarningResponse{
		ID:          e.ID,
		Action:      string(e.ActionType),
		BasePoints:  e.BasePoints,
		Multipliers: multipliers,
		FinalPoints: e.FinalPoints,
		CreatedAt:   e.CreatedAt,
	}
}
