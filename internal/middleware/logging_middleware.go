package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// RequestLogger logs one structured line per handled request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("clientIP", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("requestID", GetRequestID(c)).
			Msg("Request handled")
	}
}
