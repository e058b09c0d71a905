package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/pkg/apperr"
	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// Recovery 捕获 panic，上报 sentry 并返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(CtxRequestID)),
					zap.Stack("stack"),
				)
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetTag("request_id", c.GetString(CtxRequestID))
				hub.Scope().SetRequest(c.Request)
				hub.RecoverWithContext(c.Request.Context(), fmt.Sprint(r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
					Status:    http.StatusInternalServerError,
					ErrorCode: apperr.CodeInternal,
					Message:   apperr.Message(apperr.CodeInternal),
				})
			}
		}()
		c.Next()
	}
}
