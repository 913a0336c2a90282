package dto

// ApproveRequest carries an optional admin note for an approval.
type ApproveRequest struct {
	Note string `json:"note,omitempty"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// BoostRequest grants a one-shot multiplier to a user.
type BoostRequest struct {
	UserID     int64   `json:"user_id"`
	Factor     float64 `json:"factor"`
	TTLSeconds int64   `json:"ttl_seconds"`
}

// ErrorResponse is the uniform error envelope with a stable code.
type ErrorResponse struct {
	Code string `json:"code"`
}
