package model

import "time"

// Fingerprints identify the origin of a withdrawal request. They are
// persisted with the request and compared across accounts to surface
// reuse of the same device, IP or payment destination.
type Fingerprints struct {
	DeviceID   string
	IP         string
	PaymentKey string
}

// RiskSnapshot is a point-in-time view of a user's history consumed by
// the fraud risk scorer. It is assembled inside the same transaction
// that creates the withdrawal, so it is never computed against
// half-updated state.
type RiskSnapshot struct {
	AccountAge           time.Duration
	PriorWithdrawals     int
	Earned24h            int64
	Earned7d             int64
	TrailingDailyAverage float64
	// Distinct other accounts that have used any of this request's
	// device/IP/payment fingerprints.
	SharedFingerprintUsers int
	EmailVerified          bool
	PhoneVerified          bool
}
