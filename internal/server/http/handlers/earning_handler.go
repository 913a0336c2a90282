package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/server/http/dto"
)

// EarningHandler serves point awards and the wallet view.
type EarningHandler struct {
	facade EarningFacade
}

// NewEarningHandler creates EarningHandler instance.
func NewEarningHandler(facade EarningFacade) *EarningHandler {
	return &EarningHandler{facade: facade}
}

// Earn handles POST /api/user/earnings.
func (h *EarningHandler) Earn(c *gin.Context) {
	var req dto.EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event, err := h.facade.GrantEarning(c.Request.Context(), CurrentUserID(c), model.ActionType(req.Action))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewEarningResponse(event))
}

// History handles GET /api/user/earnings.
func (h *EarningHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	events, err := h.facade.Earnings(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(events) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	out := make([]dto.EarningResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.NewEarningResponse(&events[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Wallet handles GET /api/user/wallet.
func (h *EarningHandler) Wallet(c *gin.Context) {
	wallet, summary, err := h.facade.WalletOverview(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(wallet, summary, time.Now()))
}
