package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"unitra/internal/pkg/limits"
	"unitra/internal/pkg/ratelimit"
	"unitra/internal/pkg/response"
)

// RateLimit admits requests against the per-tier requests/minute limit for
// the given endpoint name. Must run after JWTAuth: the identity and tier come
// from the verified token in the context. The counter is bumped before the
// handler runs, so a cancelled request still holds its slot.
func RateLimit(limiter *ratelimit.Limiter, endpoint string, failOpen bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserID)
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		limit := limits.ForTier(c.GetString(CtxTier)).RequestsPerMinute
		res, err := limiter.Admit(c.Request.Context(), userID, endpoint, limit)
		if err != nil {
			if failOpen {
				c.Next()
				return
			}
			response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Rate limiter unavailable")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.ResetIn.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			response.RateLimited(c, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded", retryAfter, gin.H{
				"limit": limit,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
