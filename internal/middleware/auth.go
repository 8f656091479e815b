package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pantrypilot/backend/internal/service"
	"github.com/pantrypilot/backend/internal/types"
)

// userContextKey is the gin context key holding the verified caller.
const userContextKey = "auth_user"

// TokenVerifier is an interface for resolving bearer tokens to users
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*types.AuthUser, error)
}

// AuthMiddleware creates a middleware that verifies bearer tokens against the
// auth platform and stores the caller in the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			abortWithVerifyError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func abortWithVerifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
	case errors.Is(err, service.ErrConfig):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auth configuration is incomplete"})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	}
	c.Abort()
}

// CurrentUser returns the verified caller stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*types.AuthUser, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*types.AuthUser)
	return user, ok
}
