package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"interview-media-backend/internal/config"
	"interview-media-backend/internal/models"
)

const AccountIDKey = "account_id"

// Account resolves the caller's account for the request. The system runs
// single-tenant: without a bearer token every request binds to the
// configured default account. A valid JWT (HS256, account id in "sub")
// selects a different account, which keeps the door open for multi-tenancy
// without touching the services.
func Account(cfg *config.Config) gin.HandlerFunc {
	defaultAccount := uuid.MustParse(cfg.DefaultAccountID)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || cfg.JWTSecret == "" {
			c.Set(AccountIDKey, defaultAccount)
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			rejectToken(c, "invalid authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			rejectToken(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			rejectToken(c, "invalid token claims")
			return
		}
		sub, _ := claims["sub"].(string)
		accountID, err := uuid.Parse(sub)
		if err != nil {
			rejectToken(c, "token subject is not an account id")
			return
		}

		c.Set(AccountIDKey, accountID)
		c.Next()
	}
}

// AccountID returns the account bound to the request context.
func AccountID(c *gin.Context) uuid.UUID {
	return c.MustGet(AccountIDKey).(uuid.UUID)
}

func rejectToken(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, models.Envelope{
		Success:   false,
		ErrorCode: "FORBIDDEN",
		Message:   message,
	})
}
