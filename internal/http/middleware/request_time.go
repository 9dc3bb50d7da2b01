package middleware

import (
	"fmt"
	"time"

	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
)

const DefaultSlowRequest = 4 * time.Second

// RequestTime warns about requests that take longer than threshold.
func RequestTime(threshold time.Duration) gin.HandlerFunc {
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		if elapsed > threshold {
			utils.LogWarn(GetRequestID(c), "http", "slow_request",
				fmt.Sprintf("request [%s] at %s took %d ms", c.Request.Method, c.Request.URL.Path, elapsed.Milliseconds()))
		}
	}
}
