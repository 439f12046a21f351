package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthMiddleware struct {
	auth   Authenticator
	logger *zap.Logger
	// inactiveAllowed are route paths a deactivated account may still call.
	inactiveAllowed map[string]bool
}

func NewAuthMiddleware(auth Authenticator, logger *zap.Logger, inactiveAllowed ...string) *AuthMiddleware {
	allowed := make(map[string]bool, len(inactiveAllowed))
	for _, p := range inactiveAllowed {
		allowed[p] = true
	}
	return &AuthMiddleware{auth: auth, logger: logger, inactiveAllowed: allowed}
}

// RequireAuth validates the bearer token and stores the user in the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const bearerPrefix = "Bearer "
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		user, err := m.auth.Authenticate(c.Request.Context(), strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			msg := "Invalid or expired token"
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				msg = "User not found"
			case errors.Is(err, domain.ErrTokenRevoked):
				msg = "Token has been revoked"
			case !errors.Is(err, domain.ErrInvalidToken):
				m.logger.Error("token check failed", zap.Error(err))
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if !user.IsActive && !m.inactiveAllowed[c.FullPath()] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// SetUser stores user the way RequireAuth does.
func SetUser(c *gin.Context, user *domain.User) {
	c.Set(userKey, user)
}
