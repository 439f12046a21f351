package middleware

import (
	"fmt"
	"net/http"

	"github.com/gdugdh24/mutual-backend/internal/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KeyFunc picks the bucket a request counts against. An empty key skips limiting.
type KeyFunc func(c *gin.Context) string

// ByUser keys on the authenticated user. It must run after RequireAuth.
func ByUser(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return "user:" + u.ID.String()
	}
	return ""
}

// ByIP keys on the client address. gin resolves X-Forwarded-For from trusted proxies.
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RateLimitMessage is the 429 body text for a limiter with budget max.
func RateLimitMessage(max int) string {
	return fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute.", max)
}

// RateLimit rejects requests over the limiter's budget with 429. Limiter
// errors let the request through.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if k == "" {
			c.Next()
			return
		}
		allowed, err := limiter.Allow(c.Request.Context(), k)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", k), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": RateLimitMessage(limiter.Max())})
			return
		}
		c.Next()
	}
}
