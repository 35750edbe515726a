// README: Recovery middleware; panics become 500s instead of dropped connections.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bridget/internal/logger"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error("panic_recovered", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
