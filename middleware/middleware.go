package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 response so one
// malformed workbook or assessment request cannot take the server down.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("Recovered from panic while handling request",
					zap.String("path", ctx.Request.URL.Path),
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())))
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Assessment failed unexpectedly. Please retry.",
				})
			}
		}()
		ctx.Next()
	}
}
