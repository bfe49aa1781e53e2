package middleware

import (
	"fmt"
	"runtime/debug"

	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into the 500 envelope and logs the stack.
func RecoveryMiddleware(logger *config.Logger, metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			if metrics != nil {
				metrics.RecordPanic(c.Request.Context())
			}

			logger.Error(c.Request.Context(), "Unhandled panic",
				zap.String("panic", fmt.Sprint(recovered)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.ByteString("stack", debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			SendInternalError(c)
		}()

		c.Next()
	}
}
