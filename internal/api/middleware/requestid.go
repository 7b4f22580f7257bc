package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/shared/id"
)

const (
	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"

	requestIDKey       = "filecore.request_id"
	maxRequestIDLength = 128
)

// RequestID tags every request with an ID for log correlation. A caller's
// X-Request-ID is reused when it is short enough, otherwise a new one is
// generated. The ID is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = id.NewRequestID()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the ID set by RequestID, or "" outside it
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
