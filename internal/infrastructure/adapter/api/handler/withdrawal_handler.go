package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	withdrawalUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/withdrawal"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/middleware"
)

// WithdrawalHandler handles withdrawal HTTP requests for users and operators
type WithdrawalHandler struct {
	withdrawalService *withdrawalUseCase.Service
	logger            coreport.Logger
}

// NewWithdrawalHandler creates a new withdrawal handler instance
func NewWithdrawalHandler(withdrawalService *withdrawalUseCase.Service, logger coreport.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
		logger:            logger,
	}
}

// RequestWithdrawal handles the POST /withdrawals endpoint
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	withdrawal, err := h.withdrawalService.Request(c.Request.Context(), userID, req.Amount, req.Address)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toWithdrawalResponse(withdrawal))
}

// ListMine handles the GET /withdrawals endpoint
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	withdrawals, err := h.withdrawalService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		response = append(response, toWithdrawalResponse(withdrawal))
	}

	c.JSON(http.StatusOK, response)
}

// GetAvailable handles the GET /withdrawals/available endpoint
func (h *WithdrawalHandler) GetAvailable(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	availableInCents, err := h.withdrawalService.Available(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailableResponse{
		Available: entity.AmountInCentsToString(availableInCents),
	})
}

// ListByStatus handles the GET /admin/withdrawals endpoint
func (h *WithdrawalHandler) ListByStatus(c *gin.Context) {
	status := entity.WithdrawalStatus(c.DefaultQuery("status", string(entity.WithdrawalPending)))
	switch status {
	case entity.WithdrawalPending, entity.WithdrawalApproved, entity.WithdrawalPaid,
		entity.WithdrawalRejected, entity.WithdrawalFailed:
	default:
		respondBadRequest(c, "Invalid status: "+string(status))
		return
	}

	withdrawals, err := h.withdrawalService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		response = append(response, toWithdrawalResponse(withdrawal))
	}

	c.JSON(http.StatusOK, response)
}

// Approve handles the POST /admin/withdrawals/:id/approve endpoint.
// Approval triggers the external payout, so a failed payout still returns the
// withdrawal in its settled failed state alongside the error.
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	withdrawalID, ok := h.withdrawalIDParam(c)
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalService.Approve(c.Request.Context(), withdrawalID)
	if err != nil {
		if withdrawal != nil {
			// Payout failed after approval, the withdrawal carries the note
			c.JSON(http.StatusBadGateway, toWithdrawalResponse(withdrawal))
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toWithdrawalResponse(withdrawal))
}

// Reject handles the POST /admin/withdrawals/:id/reject endpoint.
// The body is optional; when present it may carry a rejection reason.
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	withdrawalID, ok := h.withdrawalIDParam(c)
	if !ok {
		return
	}

	var req dto.WithdrawalRejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "Invalid request format: "+err.Error())
			return
		}
	}

	withdrawal, err := h.withdrawalService.Reject(c.Request.Context(), withdrawalID, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (h *WithdrawalHandler) withdrawalIDParam(c *gin.Context) (uint64, bool) {
	withdrawalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || withdrawalID == 0 {
		respondBadRequest(c, "Invalid withdrawal ID format")
		return 0, false
	}
	return withdrawalID, true
}
