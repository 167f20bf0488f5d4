package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkasample/logger"
)

// Probe paths are polled constantly and are not logged.
var quietPaths = map[string]bool{
	"/health":    true,
	"/liveness":  true,
	"/readiness": true,
	"/metrics":   true,
}

// RequestLogger logs each request with its status and latency. 5xx responses
// log at error level, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id, ok := c.Get("request_id"); ok {
			fields["request_id"] = id
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}

		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
