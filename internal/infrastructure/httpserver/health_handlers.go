package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// healthCheck probes the user store, the OTP cache and the mail queue.
// Any failing dependency degrades the verdict to 503 so orchestrators
// stop routing to this instance while it cannot complete a flow.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.healthCheckers))
	healthy := true
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			checks[hc.Name()] = "down"
			healthy = false
			if s.logger != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
			}
			continue
		}
		checks[hc.Name()] = "up"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]any{
		"status":       status,
		"service":      "user-service",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dependencies": checks,
	})
}
