package middleware

import (
	"net/http"

	"restaurantapi/internal/authz"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequirePolicy gates a route on a named policy that needs no resource.
// A deny answers 403; an unknown policy or failed evaluation answers 500.
func RequirePolicy(engine *authz.Engine, policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := GetRequestID(c)
		d, err := engine.Authorize(c.Request.Context(), GetIdentity(c), nil, policy)
		if err != nil {
			utils.LogError(reqID, "authz", "authorize", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "authorization failed",
				"code":       "authorization_error",
				"request_id": reqID,
			})
			return
		}
		if !d.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden by policy " + policy,
				"code":       "forbidden",
				"reason":     d.Reason(),
				"request_id": reqID,
			})
			return
		}
		c.Next()
	}
}
