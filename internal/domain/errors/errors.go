package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnknownActionType   = errors.New("unknown action type")
	ErrDailyLimitExceeded  = errors.New("daily limit exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")

	ErrUnsupportedMethod   = errors.New("unsupported withdrawal method")
	ErrInvalidMethodFields = errors.New("invalid withdrawal method fields")

	ErrConfigUnavailable = errors.New("economy config unavailable")
	ErrRetryExhausted    = errors.New("concurrent modification retries exhausted")

	ErrInvalidTransition = errors.New("invalid withdrawal transition")
	ErrAlreadyProcessed  = errors.New("withdrawal already processed")
	ErrReasonRequired    = errors.New("rejection reason required")
	ErrInvalidConfig     = errors.New("invalid economy config")
)

// Code maps a domain error to a stable machine-readable code the API
// layer can expose, so clients can render targeted copy instead of a
// generic failure message.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUnknownActionType):
		return "unknown_action_type"
	case errors.Is(err, ErrDailyLimitExceeded):
		return "daily_limit_exceeded"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrUnsupportedMethod):
		return "unsupported_method"
	case errors.Is(err, ErrInvalidMethodFields):
		return "invalid_method_fields"
	case errors.Is(err, ErrConfigUnavailable):
		return "config_unavailable"
	case errors.Is(err, ErrRetryExhausted):
		return "retry_exhausted"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, ErrReasonRequired):
		return "rejection_reason_required"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	default:
		return "internal_error"
	}
}
