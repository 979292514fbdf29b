package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/route"
)

// Dispatcher picks exactly one relay handler per request. It is registered as
// a catch-all so echo's router never makes the decision itself.
type Dispatcher struct {
	preflight echo.HandlerFunc
	proxy     echo.HandlerFunc
	batch     echo.HandlerFunc
}

// NewDispatcher creates a Dispatcher. The batch handler buffers its body, so
// it alone is wrapped in a body size limit.
func NewDispatcher(proxy *ProxyHandler, batch *BatchHandler, cfg *config.Config) *Dispatcher {
	limit := echomw.BodyLimit(fmt.Sprintf("%dB", cfg.Server.BatchBodyMaxBytes))
	return &Dispatcher{
		preflight: Preflight,
		proxy:     proxy.Handle,
		batch:     limit(batch.Handle),
	}
}

// Handle routes the request by method and path.
func (d *Dispatcher) Handle(c echo.Context) error {
	req := c.Request()
	switch route.Of(req.Method, req.URL.Path) {
	case route.Preflight:
		return d.preflight(c)
	case route.Batch:
		return d.batch(c)
	default:
		return d.proxy(c)
	}
}
