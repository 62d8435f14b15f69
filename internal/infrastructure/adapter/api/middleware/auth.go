package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domainerr "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/api/dto"
)

const (
	contextUserIDKey  = "authUserID"
	contextIsAdminKey = "authIsAdmin"
)

// Claims carries the authenticated identity inside a signed token
type Claims struct {
	UserID  uint64 `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the given user
func IssueToken(secret string, expiry time.Duration, userID uint64, isAdmin bool, timeProvider coreport.TimeProvider) (string, error) {
	now := timeProvider.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RequireAuth verifies the bearer token and stores the identity on the context
func RequireAuth(secret string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Missing or malformed Authorization header",
			})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.Warn("Rejected invalid token", map[string]any{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Set(contextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the operator flag.
// Must run after RequireAuth.
func RequireAdmin(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(contextIsAdminKey) {
			logger.Warn("Rejected non-admin access to admin route", map[string]any{
				"path":   c.Request.URL.Path,
				"userId": c.GetUint64(contextUserIDKey),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireAuth
func UserIDFromContext(c *gin.Context) uint64 {
	return c.GetUint64(contextUserIDKey)
}
