package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkasample/logger"
)

// Recovery recovers from handler panics, logs the stack and answers 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", err),
					"stack":  string(debug.Stack()),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
