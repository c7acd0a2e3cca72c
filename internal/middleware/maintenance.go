package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const maintenanceBody = `{"error":{"code":"MAINTENANCE","message":"the service is down for maintenance"}}`

// Maintenance short-circuits page traffic with a 503 while the switch is on.
// API routes under apiPrefix keep working; so do health probes, the metrics
// scrape, and static assets, so the instance can be observed during the window.
func Maintenance(apiPrefix string, enabled func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled == nil || !enabled() {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if apiPrefix != "" && strings.HasPrefix(path, apiPrefix) {
			c.Next()
			return
		}
		if path == "/health" || path == "/ready" || path == "/metrics" || strings.HasPrefix(path, "/assets/") {
			c.Next()
			return
		}

		c.Header("Retry-After", "600")
		c.Data(http.StatusServiceUnavailable, "application/json", []byte(maintenanceBody))
		c.Abort()
	}
}
