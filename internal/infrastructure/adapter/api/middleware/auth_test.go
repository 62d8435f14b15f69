package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	coretime "github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/time"
)

const signingSecret = "test-signing-secret"

func newAuthRouter(adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	log := logger.NewNoopLogger()

	handlers := []gin.HandlerFunc{RequireAuth(signingSecret, log)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin(log))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserIDFromContext(c)})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	clock := coretime.NewRealTimeProvider()

	t.Run("A valid token passes and exposes the user", func(t *testing.T) {
		token, err := IssueToken(signingSecret, time.Hour, 42, false, clock)
		require.NoError(t, err)

		rec := doRequest(newAuthRouter(false), "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"userId":42}`, rec.Body.String())
	})

	t.Run("Missing header", func(t *testing.T) {
		rec := doRequest(newAuthRouter(false), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		rec := doRequest(newAuthRouter(false), "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := IssueToken("another-secret", time.Hour, 42, false, clock)
		require.NoError(t, err)

		rec := doRequest(newAuthRouter(false), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token, err := IssueToken(signingSecret, -time.Hour, 42, false, clock)
		require.NoError(t, err)

		rec := doRequest(newAuthRouter(false), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	clock := coretime.NewRealTimeProvider()

	t.Run("Operator token passes", func(t *testing.T) {
		token, err := IssueToken(signingSecret, time.Hour, 1, true, clock)
		require.NoError(t, err)

		rec := doRequest(newAuthRouter(true), "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Member token is forbidden", func(t *testing.T) {
		token, err := IssueToken(signingSecret, time.Hour, 2, false, clock)
		require.NoError(t, err)

		rec := doRequest(newAuthRouter(true), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
