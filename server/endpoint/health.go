package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkasample/component"
)

// HealthChecker returns the health of the registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that aggregates component health. Any unhealthy
// component turns the response into a 503; a degraded one reports
// "degraded" with a 200.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		components := []component.Health{}

		if checker != nil {
			components = checker(c.Request.Context())
			for _, ch := range components {
				if ch.Status == component.StatusUnhealthy {
					status = "unhealthy"
					break
				}
				if ch.Status == component.StatusDegraded {
					status = "degraded"
				}
			}
		}

		httpStatus := http.StatusOK
		if status == "unhealthy" {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}
