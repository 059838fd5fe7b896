package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/uuid"
)

const requestIDKey = "requestID"

// RequestLogging returns a Gin middleware that logs each request with a unique
// request ID, method, path, status code, latency, client IP and, once
// authenticated, the caller's user ID.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if caller, ok := CallerFrom(c); ok {
			fields = append(fields, "user_id", caller.UserID, "role", caller.Role)
		}

		log := logger.Named("http")
		if c.Writer.Status() >= 500 {
			log.Errorw("request", fields...)
			return
		}
		log.Infow("request", fields...)
	}
}
