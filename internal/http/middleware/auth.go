package middleware

import (
	"net/http"
	"strings"

	"restaurantapi/internal/auth"
	"restaurantapi/internal/authz"
	"restaurantapi/internal/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticate reads a bearer token when present and stores the caller's
// identity and role on the context. Requests without a token continue
// anonymously; a malformed or expired token is rejected with 401.
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortUnauthorized(c, "unauthorized: malformed authorization header")
			return
		}
		id, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			utils.LogWarn(GetRequestID(c), "auth", "parse_token", err.Error())
			abortUnauthorized(c, "unauthorized: invalid token")
			return
		}
		c.Set(identityKey, id)
		c.Set("userRole", id.Role())
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAuthenticated() {
			abortUnauthorized(c, "unauthorized: missing token")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller's identity, or an empty one for anonymous
// requests.
func GetIdentity(c *gin.Context) authz.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(authz.Identity); ok {
			return id
		}
	}
	return authz.Identity{}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}
