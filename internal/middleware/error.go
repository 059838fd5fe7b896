package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/errors"
	"github.com/hirwajeaneric/park-pro-backend-v2-sub000/internal/logger"
)

// WriteError renders err as {"error":{"code","message"}}. AppErrors keep their
// status and code; anything else becomes ErrInternalServer. Internal
// causes are logged with the request ID and never reach the client.
func WriteError(c *gin.Context, err error) {
	log := logger.Named("http").With(
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Errorw("unexpected error", "error", err.Error())
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		log.Errorw("app error",
			"code", appErr.Code,
			"kind", appErr.Kind(),
			"internal", appErr.Internal.Error(),
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ErrorHandler renders the last error a handler attached with c.Error, unless
// the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, c.Errors.Last().Err)
	}
}
