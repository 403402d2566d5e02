package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/config"
	"interview-media-backend/internal/middleware"
)

func accountRouter(cfg *config.Config, captured *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Account(cfg))
	router.GET("/test", func(c *gin.Context) {
		*captured = middleware.AccountID(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAccount_NoTokenUsesDefault(t *testing.T) {
	cfg := &config.Config{DefaultAccountID: config.DefaultAccount, JWTSecret: "test-secret"}
	var captured uuid.UUID
	router := accountRouter(cfg, &captured)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.MustParse(config.DefaultAccount), captured)
}

func TestAccount_NoSecretIgnoresToken(t *testing.T) {
	cfg := &config.Config{DefaultAccountID: config.DefaultAccount}
	var captured uuid.UUID
	router := accountRouter(cfg, &captured)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.MustParse(config.DefaultAccount), captured)
}

func TestAccount_ValidTokenSelectsAccount(t *testing.T) {
	cfg := &config.Config{DefaultAccountID: config.DefaultAccount, JWTSecret: "test-secret-key-long-enough"}
	accountID := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": accountID.String(),
	})
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	assert.NoError(t, err)

	var captured uuid.UUID
	router := accountRouter(cfg, &captured)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, accountID, captured)
}

func TestAccount_InvalidToken(t *testing.T) {
	cfg := &config.Config{DefaultAccountID: config.DefaultAccount, JWTSecret: "test-secret"}
	var captured uuid.UUID
	router := accountRouter(cfg, &captured)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAccount_NonUUIDSubject(t *testing.T) {
	cfg := &config.Config{DefaultAccountID: config.DefaultAccount, JWTSecret: "test-secret"}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	assert.NoError(t, err)

	var captured uuid.UUID
	router := accountRouter(cfg, &captured)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
