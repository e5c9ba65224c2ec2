package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheckFunc pings one backing service.
type HealthCheckFunc func(ctx context.Context) error

// Healthz reports the status of every backing service. The endpoint
// returns 503 when any dependency is down.
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	services := make(gin.H, len(h.healthChecks))
	for name, check := range h.healthChecks {
		if err := check(ctx); err != nil {
			services[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			services[name] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"services": services,
	})
}
