package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loam-dev/loam/internal/infrastructure/ratelimit"
	"github.com/loam-dev/loam/internal/shared/logger"
	"github.com/loam-dev/loam/internal/shared/utils"
)

// SubmitRateLimitMiddleware throttles renewal request submission per
// user so a misbehaving client cannot flood the review queue.
type SubmitRateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewSubmitRateLimitMiddleware(
	limiter ratelimit.RateLimiter,
	config ratelimit.RateLimitConfig,
	logger logger.Interface,
) *SubmitRateLimitMiddleware {
	return &SubmitRateLimitMiddleware{
		limiter: limiter,
		config:  config,
		logger:  logger,
	}
}

// LimitByUser applies the submission rate limit keyed on the
// authenticated user. Must run after RequireAuth.
func (m *SubmitRateLimitMiddleware) LimitByUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.CurrentUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		key := fmt.Sprintf("renewal-submit:%d", userID)

		allowed, err := m.limiter.Allow(key, m.config)
		if err != nil {
			// Redis trouble should not lock tenants out of renewing.
			m.logger.Errorw("rate limit check failed, allowing request",
				"error", err,
				"user_id", userID,
			)
			c.Next()
			return
		}

		remaining, err := m.limiter.GetRemaining(key, m.config)
		if err != nil {
			m.logger.Warnw("failed to get remaining rate limit",
				"error", err,
				"user_id", userID,
			)
			remaining = 0
		}
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(m.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(m.config.Window).Unix(), 10))

		if !allowed {
			m.logger.Warnw("renewal submission rate limit exceeded",
				"user_id", userID,
				"limit", m.config.Requests,
				"window", m.config.Window,
			)

			c.Header("Retry-After", strconv.FormatInt(int64(m.config.Window.Seconds()), 10))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many renewal requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
