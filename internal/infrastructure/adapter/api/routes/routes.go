package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/handler"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	logger coreport.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	depositHandler *handler.DepositHandler,
	withdrawalHandler *handler.WithdrawalHandler,
	adminHandler *handler.AdminHandler,
) {
	// Public routes
	authRoutes := router.Group("/auth")
	{
		// POST /auth/signup
		authRoutes.POST("/signup", authHandler.Signup)
	}

	// Authenticated routes
	authenticated := router.Group("/", middleware.RequireAuth(jwtSecret, logger))
	{
		userRoutes := authenticated.Group("/users/me")
		{
			// GET /users/me
			userRoutes.GET("", userHandler.GetProfile)

			// GET /users/me/referrals
			userRoutes.GET("/referrals", userHandler.GetReferrals)

			// GET /users/me/network
			userRoutes.GET("/network", userHandler.GetNetwork)

			// GET /users/me/referral-link
			userRoutes.GET("/referral-link", userHandler.GetReferralLink)

			// POST /users/me/daily-profit/claim
			userRoutes.POST("/daily-profit/claim", userHandler.ClaimDailyProfit)
		}

		// POST /deposits/verify
		authenticated.POST("/deposits/verify", depositHandler.VerifyDeposit)

		withdrawalRoutes := authenticated.Group("/withdrawals")
		{
			// POST /withdrawals
			withdrawalRoutes.POST("", withdrawalHandler.RequestWithdrawal)

			// GET /withdrawals
			withdrawalRoutes.GET("", withdrawalHandler.ListMine)

			// GET /withdrawals/available
			withdrawalRoutes.GET("/available", withdrawalHandler.GetAvailable)
		}

		// Operator routes
		adminRoutes := authenticated.Group("/admin", middleware.RequireAdmin(logger))
		{
			// GET /admin/stats
			adminRoutes.GET("/stats", adminHandler.GetStats)

			// GET /admin/withdrawals?status=pending
			adminRoutes.GET("/withdrawals", withdrawalHandler.ListByStatus)

			// POST /admin/withdrawals/:id/approve
			adminRoutes.POST("/withdrawals/:id/approve", withdrawalHandler.Approve)

			// POST /admin/withdrawals/:id/reject
			adminRoutes.POST("/withdrawals/:id/reject", withdrawalHandler.Reject)
		}
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
