package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "session_id"

const contextKeyOwner = "owner"

// OwnerFromContext returns the owner identity set by RequireSession.
// Empty if not set.
func OwnerFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyOwner)
	if !ok {
		return ""
	}
	owner, ok := v.(string)
	if !ok {
		return ""
	}
	return owner
}

// RequireSession returns a middleware that checks for a valid session cookie
// and sets the owner identity in context. If missing or invalid, responds
// with 401.
func RequireSession(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		owner, ok := sessions.Owner(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyOwner, owner)
		c.Next()
	}
}
