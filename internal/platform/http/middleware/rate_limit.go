package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"account_backend/internal/platform/http/respond"
	"account_backend/internal/shared/ratelimiter"
)

// RateLimit はクライアントIPごとに上限を超えたリクエストを拒否します。
func RateLimit(limiter ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respond.Fail(c, http.StatusTooManyRequests,
			"Too many requests, please try again later", respond.LabelTooManyRequests, nil)
	}
}
