package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"activityboard/internal/app/http/handler"
	"activityboard/internal/app/http/middleware"
)

func NewRouter(h *handler.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.ZapLogger(log),
		middleware.ZapRecovery(log),
	)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", h.Index)
	r.GET("/board", h.Fragment)
	r.GET("/events", h.Events)

	r.POST("/signup", h.Signup)
	r.POST("/remove", h.Remove)
	r.GET("/remove/confirm", h.ConfirmRemove)
	r.POST("/refresh", h.Refresh)

	return r
}
