package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	domainerr "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
)

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrUserNotFound),
		errors.Is(err, domainerr.ErrWithdrawalNotFound),
		errors.Is(err, domainerr.ErrPaymentNotFound),
		errors.Is(err, domainerr.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domainerr.ErrDuplicateUser),
		errors.Is(err, domainerr.ErrDuplicateTransaction),
		errors.Is(err, domainerr.ErrWithdrawalNotPending),
		errors.Is(err, domainerr.ErrUserLocked):
		return http.StatusConflict

	case errors.Is(err, domainerr.ErrInsufficientBalance),
		errors.Is(err, domainerr.ErrNotEligible),
		errors.Is(err, domainerr.ErrDailyBonusNotDue):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domainerr.ErrPayoutFailed):
		return http.StatusBadGateway

	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrAmountOverflow),
		errors.Is(err, domainerr.ErrBelowMinimumDeposit),
		errors.Is(err, domainerr.ErrBelowMinimumWithdrawal),
		errors.Is(err, domainerr.ErrInvalidAddress),
		errors.Is(err, domainerr.ErrInvalidAdminWallet),
		errors.Is(err, domainerr.ErrInvalidReferralCode),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response for a failed operation.
// Internal errors are logged and masked, domain errors pass their message through.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	status := statusForError(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"error":      err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		message = "Internal server error"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

// respondBadRequest writes a 400 for malformed request payloads
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: message,
	})
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		RefCode:       u.RefCode,
		Balance:       entity.AmountInCentsToString(u.Balance()),
		BonusEarned:   entity.AmountInCentsToString(u.BonusEarned()),
		DailyProfit:   entity.AmountInCentsToString(u.DailyProfit()),
		Level:         u.Level,
		Rank:          u.Rank,
		ReferralCount: int(u.ReferralCount),
		DailyEligible: u.DailyEligible,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}

func toEventResponse(e *entity.ReferralEvent) dto.ReferralEventResponse {
	return dto.ReferralEventResponse{
		ID:         e.ID,
		FromUserID: e.FromUserID,
		Depth:      e.Depth,
		Amount:     entity.AmountInCentsToString(e.AmountInCents),
		Status:     string(e.Status),
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}

func toWithdrawalResponse(w *entity.Withdrawal) dto.WithdrawalResponse {
	resp := dto.WithdrawalResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Amount:      entity.AmountInCentsToString(w.AmountInCents),
		Address:     w.Address,
		Status:      string(w.Status),
		Note:        w.Note,
		PayoutID:    w.PayoutID,
		RequestedAt: w.RequestedAt.Format(time.RFC3339),
	}
	if w.ProcessedAt != nil {
		resp.ProcessedAt = w.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}
