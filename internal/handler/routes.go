package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/metrics"
)

// RegisterRoutes wires the relay onto the Echo instance. Every method and path
// reaches the dispatcher; RouteNotFound catches whatever Any does not match.
// It also installs the relay's error handler.
func RegisterRoutes(e *echo.Echo, d *Dispatcher, logger *slog.Logger) {
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Any("/", d.Handle)
	e.Any("/*", d.Handle)
	e.RouteNotFound("/*", d.Handle)
}

// RegisterAdminRoutes wires health, status and, when enabled, metrics onto the
// admin Echo instance. m may be nil when metrics are disabled.
func RegisterAdminRoutes(e *echo.Echo, health *HealthHandler, cfg *config.Config, m *metrics.Metrics) {
	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
