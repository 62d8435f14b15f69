package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	userUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/user"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/middleware"
)

// UserHandler handles account and referral network HTTP requests
type UserHandler struct {
	profileService     *userUseCase.ProfileService
	dailyProfitService *userUseCase.DailyProfitService
	logger             coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	profileService *userUseCase.ProfileService,
	dailyProfitService *userUseCase.DailyProfitService,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		profileService:     profileService,
		dailyProfitService: dailyProfitService,
		logger:             logger,
	}
}

// GetProfile handles the GET /users/me endpoint
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.profileService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	events := make([]dto.ReferralEventResponse, 0, len(profile.Events))
	for _, event := range profile.Events {
		events = append(events, toEventResponse(event))
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:        toUserResponse(profile.User),
		Events:      events,
		TotalProfit: entity.AmountInCentsToString(profile.TotalProfitCents),
	})
}

// GetReferrals handles the GET /users/me/referrals endpoint
func (h *UserHandler) GetReferrals(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	referrals, err := h.profileService.DirectReferrals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.UserResponse, 0, len(referrals))
	for _, referral := range referrals {
		response = append(response, toUserResponse(referral))
	}

	c.JSON(http.StatusOK, response)
}

// GetNetwork handles the GET /users/me/network endpoint
func (h *UserHandler) GetNetwork(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	nodes, err := h.profileService.Network(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]dto.NetworkNodeResponse, 0, len(nodes))
	for _, node := range nodes {
		children := make([]dto.UserResponse, 0, len(node.Children))
		for _, child := range node.Children {
			children = append(children, toUserResponse(child))
		}
		response = append(response, dto.NetworkNodeResponse{
			User:     toUserResponse(node.User),
			Children: children,
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetReferralLink handles the GET /users/me/referral-link endpoint
func (h *UserHandler) GetReferralLink(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	refCode, link, err := h.profileService.ReferralLink(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReferralLinkResponse{
		RefCode: refCode,
		Link:    link,
	})
}

// ClaimDailyProfit handles the POST /users/me/daily-profit/claim endpoint
func (h *UserHandler) ClaimDailyProfit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	totalInCents, err := h.dailyProfitService.Claim(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.DailyProfitResponse{
		DailyProfit: entity.AmountInCentsToString(totalInCents),
	})
}
