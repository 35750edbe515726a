// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bridget/internal/http/handlers"
	"bridget/internal/http/middleware"
	"bridget/internal/modules/featureflags"
	"bridget/internal/modules/transform"
)

func NewRouter(transformSvc *transform.Service, flagSvc *featureflags.Service) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Logging())

	transformHandler := handlers.NewTransformHandler(transformSvc, flagSvc)
	r.POST("/api/transform/batch", transformHandler.Batch)
	r.GET("/api/transform/stats", transformHandler.Stats)
	r.POST("/api/transform/invalidate", transformHandler.Invalidate)

	flagHandler := handlers.NewFlagHandler(flagSvc)
	r.GET("/api/flags", flagHandler.List)
	r.GET("/api/flags/:flag", flagHandler.Get)
	r.PUT("/api/flags/:flag", flagHandler.Update)
	r.GET("/api/flags/:flag/check", flagHandler.Check)
	r.POST("/api/flags/reset", flagHandler.Reset)
	r.POST("/api/flags/coordinate_transformation/disable", flagHandler.Disable)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
