package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
)

// APIKeyHeader carries the shared secret of out-of-band consumers such as the
// funding allocation job.
const APIKeyHeader = "X-API-Key"

// PipelineKey is set on the context once a pipeline request is authenticated.
const PipelineKey = "pipeline"

// PipelineAuthMiddleware guards machine-to-machine routes with a static API
// key. An empty apiKey disables the routes entirely.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	log := logger.Named("pipeline")

	return func(c *gin.Context) {
		if apiKey == "" {
			abortPipeline(c, http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED", "Pipeline endpoints are not configured")
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			log.Warnw("rejected pipeline request",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"key_present", key != "",
			)
			abortPipeline(c, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid or missing API key")
			return
		}

		c.Set(PipelineKey, true)
		c.Next()
	}
}

func abortPipeline(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
