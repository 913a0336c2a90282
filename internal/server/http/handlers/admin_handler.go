package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/earnwell/economy/internal/domain/model"
	"github.com/earnwell/economy/internal/server/http/dto"
)

// AdminHandler serves the role-gated config and review surface.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Config handles GET /api/admin/config.
func (h *AdminHandler) Config(c *gin.Context) {
	cfg, err := h.facade.EconomyConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig handles PUT /api/admin/config.
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	var cfg model.EconomyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	saved, err := h.facade.UpdateEconomyConfig(c.Request.Context(), &cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Withdrawals handles GET /api/admin/withdrawals?status=pending.
func (h *AdminHandler) Withdrawals(c *gin.Context) {
	status := model.WithdrawalStatus(c.DefaultQuery("status", string(model.WithdrawalStatusPending)))
	switch status {
	case model.WithdrawalStatusPending, model.WithdrawalStatusProcessing,
		model.WithdrawalStatusCompleted, model.WithdrawalStatusRejected:
	default:
		c.Status(http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	requests, err := h.facade.WithdrawalsByStatus(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.WithdrawalResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewWithdrawalResponse(&requests[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Approve handles POST /api/admin/withdrawals/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	var req dto.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	updated, err := h.facade.ApproveWithdrawal(c.Request.Context(), id, CurrentUserID(c), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(updated))
}

// Reject handles POST /api/admin/withdrawals/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	updated, err := h.facade.RejectWithdrawal(c.Request.Context(), id, CurrentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(updated))
}

// Boost handles POST /api/admin/boosts.
func (h *AdminHandler) Boost(c *gin.Context) {
	var req dto.BoostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.Factor <= 1.0 || req.TTLSeconds <= 0 {
		c.Status(http.StatusBadRequest)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.facade.GrantBoost(c.Request.Context(), req.UserID, req.Factor, ttl); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
