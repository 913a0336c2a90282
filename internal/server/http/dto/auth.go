package dto

// AuthRequest describes login/password payload. Country is an optional
// ISO code captured at registration for payout conversion.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Country  string `json:"country,omitempty"`
}
