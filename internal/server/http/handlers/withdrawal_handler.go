package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/server/http/dto"
	"github.com/earnwell/economy/internal/usecase"
)

// WithdrawalHandler serves the user-facing withdrawal surface.
type WithdrawalHandler struct {
	facade WithdrawalFacade
}

// NewWithdrawalHandler creates WithdrawalHandler instance.
func NewWithdrawalHandler(facade WithdrawalFacade) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade}
}

// Create handles POST /api/user/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	method, err := model.DecodeMethod(model.MethodKind(req.Method), req.Details)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.facade.CreateWithdrawal(c.Request.Context(), usecase.CreateWithdrawalInput{
		UserID:       CurrentUserID(c),
		AmountPoints: req.AmountPoints,
		Method:       method,
		DeviceID:     c.GetHeader("X-Device-Id"),
		IP:           c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewWithdrawalResponse(created))
}

// Quote handles GET /api/user/withdrawals/quote.
func (h *WithdrawalHandler) Quote(c *gin.Context) {
	points, err := strconv.ParseInt(c.Query("points"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	usd, err := h.facade.QuoteWithdrawal(c.Request.Context(), CurrentUserID(c), points)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{AmountPoints: points, AmountUSD: usd.StringFixed(2)})
}

// History handles GET /api/user/withdrawals.
func (h *WithdrawalHandler) History(c *gin.Context) {
	requests, err := h.facade.Withdrawals(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(requests) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	out := make([]dto.WithdrawalResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewWithdrawalResponse(&requests[i]))
	}
	c.JSON(http.StatusOK, out)
}
