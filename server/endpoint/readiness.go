package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkasample/component"
)

// Readiness returns a handler for readiness probes. The service is ready
// when no component is unhealthy.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK

		if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				if ch.Status == component.StatusUnhealthy {
					status = "not_ready"
					httpStatus = http.StatusServiceUnavailable
					break
				}
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
