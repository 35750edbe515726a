// README: Request logging middleware over the shared slog logger.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bridget/internal/logger"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.L().Info("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", float64(time.Since(start))/float64(time.Millisecond))
	}
}
