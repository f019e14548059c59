package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request id
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key the request id is stored under
const requestIDKey = "requestID"

// RequestID assigns every request a unique id, reusing the caller's id
// when one is provided.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request id assigned to the current request
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
