package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	xhttp "GannForce/pkg/http"
	xlogger "GannForce/pkg/logger"
)

// Check is one named dependency probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler reports dependency status.
type HealthHandler struct {
	logger  *xlogger.Logger
	checks  []Check
	timeout time.Duration
}

func NewHealthHandler(logger *xlogger.Logger, checks ...Check) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks, timeout: 3 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	res := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", xlogger.String("check", chk.Name), xlogger.Error(err))
			res[chk.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		res[chk.Name] = "ok"
	}
	return xhttp.DataResponse(c, status, res)
}
