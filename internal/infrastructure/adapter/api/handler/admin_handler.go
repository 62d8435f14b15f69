package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	adminUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/admin"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
)

// AdminHandler handles operator dashboard HTTP requests
type AdminHandler struct {
	statsService *adminUseCase.StatsService
	logger       coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(statsService *adminUseCase.StatsService, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats handles the GET /admin/stats endpoint
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		UserCount:        stats.UserCount,
		TotalDailyProfit: entity.AmountInCentsToString(stats.TotalDailyProfitCents),
		TotalBonus:       entity.AmountInCentsToString(stats.TotalBonusCents),
		TotalCommission:  entity.AmountInCentsToString(stats.TotalCommissionCents),
		TotalPaidOut:     entity.AmountInCentsToString(stats.TotalPaidOutCents),
	})
}
