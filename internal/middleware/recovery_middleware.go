package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic in a handler into a logged 500 envelope. It runs after
// RequestLogger so the panic is logged with the request id.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("Panic recovered",
				zap.String("request_id", c.GetString("requestID")),
				zap.String("route", c.FullPath()),
				zap.String("method", c.Request.Method),
				zap.Any("panic", rec),
				zap.ByteString("stacktrace", debug.Stack()),
			)
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error"})
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}
