package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	userUseCase "github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/user"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/middleware"
)

// AuthHandler handles account creation and token issuance
type AuthHandler struct {
	registerService *userUseCase.RegisterService
	jwtSecret       string
	tokenExpiry     time.Duration
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(
	registerService *userUseCase.RegisterService,
	jwtSecret string,
	tokenExpiry time.Duration,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerService: registerService,
		jwtSecret:       jwtSecret,
		tokenExpiry:     tokenExpiry,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Signup handles the POST /auth/signup endpoint
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	user, err := h.registerService.Register(c.Request.Context(), req.Email, req.Username, req.RefCode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, h.tokenExpiry, user.ID, user.IsAdmin, h.timeProvider)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		User:  toUserResponse(user),
		Token: token,
	})
}
