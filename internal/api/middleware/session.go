package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/domain/session"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
)

const sessionKey = "filecore.session"

// Session resolves the :id route parameter to an open session. Unknown or
// malformed IDs end the request with 404 or 400.
func Session(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("id")
		if !id.IsValidSessionID(raw) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id", "kind": "invalid_path"})
			return
		}
		s, ok := manager.Get(id.SessionID(raw))
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found", "kind": "not_found"})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session stored by Session
func SessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
