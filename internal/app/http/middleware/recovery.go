package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activityboard/internal/app/dto"
)

// ZapRecovery turns a panic into a 500, answering HTML clients with plain
// text and everything else with the JSON error envelope.
func ZapRecovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)

				if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML {
					c.Abort()
					c.String(http.StatusInternalServerError, "internal server error")
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error: dto.Error{
						Code:    "INTERNAL_ERROR",
						Message: "internal server error",
					},
				})
			}
		}()

		c.Next()
	}
}
