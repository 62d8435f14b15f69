package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	depositUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/deposit"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/middleware"
)

// DepositHandler handles deposit confirmation HTTP requests
type DepositHandler struct {
	depositService *depositUseCase.Service
	logger         coreport.Logger
}

// NewDepositHandler creates a new deposit handler instance
func NewDepositHandler(depositService *depositUseCase.Service, logger coreport.Logger) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
		logger:         logger,
	}
}

// VerifyDeposit handles the POST /deposits/verify endpoint.
// The claimed amount is checked against on-chain transfer history and the
// matched transfer is credited exactly once.
func (h *DepositHandler) VerifyDeposit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req dto.DepositVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.depositService.ConfirmDeposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.DepositVerifyResponse{
		TxID:            result.TxID,
		FromAddress:     result.FromAddress,
		Amount:          entity.AmountInCentsToString(result.AmountInCents),
		NewBalance:      entity.AmountInCentsToString(result.NewBalanceCents),
		BecameEligible:  result.BecameEligible,
		AlreadyCredited: result.AlreadyCredited,
	})
}
