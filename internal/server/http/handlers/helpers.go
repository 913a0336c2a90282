package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/earnwell/economy/internal/domain/errors"
	"github.com/earnwell/economy/internal/server/http/dto"
	"github.com/earnwell/economy/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// respondError writes the uniform error envelope with a stable code.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{Code: domainErrors.Code(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrUnknownActionType),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrUnsupportedMethod),
		errors.Is(err, domainErrors.ErrInvalidMethodFields),
		errors.Is(err, domainErrors.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrDailyLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domainErrors.ErrConfigUnavailable),
		errors.Is(err, domainErrors.ErrRetryExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
