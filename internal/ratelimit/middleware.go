package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/metrics"
)

// Middleware enforces the limiter per client IP. Limiter errors fail open:
// an unreachable Redis must not take the write path down with it.
func Middleware(limiter Limiter, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, failing open")
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				domain.ErrorResponse{Error: "rate limit exceeded, slow down"})
			return
		}
		c.Next()
	}
}
