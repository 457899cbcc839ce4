package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tasktribe/tasktribe-api/internal/auth"
	"github.com/tasktribe/tasktribe-api/internal/constants"
	apierrors "github.com/tasktribe/tasktribe-api/internal/errors"
)

// RequireAuth validates the bearer token and stores the caller's user id in
// the gin context. Every protected handler reads the caller from there; no
// ambient identity exists anywhere else.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "), auth.PurposeLogin)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
