package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"sift-proxy-go/internal/client"
	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/handler"
	"sift-proxy-go/internal/metrics"
	"sift-proxy-go/internal/middleware"
	"sift-proxy-go/internal/service"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// adminEcho is the Echo instance behind the admin listener. Keeping it a
// distinct type lets fx tell it apart from the relay's *echo.Echo.
type adminEcho struct {
	*echo.Echo
}

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("sift-proxy"),
		kong.Description("CORS relay with a batch fetch endpoint for browser clients."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", version, commit, date)},
	)

	fx.New(
		fx.Provide(
			func() *config.CLI { return &cli },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			newMetrics,
			newEcho,
			newAdminEcho,
			client.NewUpstreamClient,
			service.NewRelayService,
			service.NewBatchService,
			handler.NewProxyHandler,
			handler.NewBatchHandler,
			handler.NewDispatcher,
			handler.NewHealthHandler,
		),
		fx.Invoke(handler.RegisterRoutes, registerAdminRoutes, warnConfigPermissions, startServer, startAdminServer),
	).Run()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "text":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

// newMetrics returns nil unless the admin listener can serve what is
// collected. Every consumer treats a nil *metrics.Metrics as disabled.
func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.MetricsExposed() {
		return nil
	}
	return metrics.New()
}

func newEcho(logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := newBaseEcho()

	// Read and write timeouts are disabled (0) to avoid cutting off long
	// relayed streams such as git pack uploads and downloads. Slow clients are
	// bounded by ReadHeaderTimeout and IdleTimeout, upstream silence by the
	// client's response header timeout.
	e.Server.ReadTimeout = 0
	e.Server.WriteTimeout = 0

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	if m != nil {
		e.Use(middleware.MetricsMiddleware(m))
	}

	return e
}

func newAdminEcho() *adminEcho {
	e := newBaseEcho()

	// Admin responses are small; inbound timeouts mitigate slow-client attacks.
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	e.Use(echomw.Recover())
	e.Use(middleware.SecurityHeaders())
	return &adminEcho{Echo: e}
}

func newBaseEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.IdleTimeout = 120 * time.Second
	e.Server.ReadHeaderTimeout = 10 * time.Second
	return e
}

func registerAdminRoutes(a *adminEcho, health *handler.HealthHandler, cfg *config.Config, m *metrics.Metrics) {
	handler.RegisterAdminRoutes(a.Echo, health, cfg, m)
}

func warnConfigPermissions(cfg *config.Config, logger *slog.Logger) {
	cfg.WarnPermissions(logger)
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, logger *slog.Logger) {
	serve(lc, e, cfg.Server.Addr(), logger.With("server", "relay"))
}

func startAdminServer(lc fx.Lifecycle, a *adminEcho, cfg *config.Config, logger *slog.Logger) {
	if !cfg.Admin.Enabled {
		return
	}
	serve(lc, a.Echo, cfg.Admin.Addr(), logger.With("server", "admin"))
}

func serve(lc fx.Lifecycle, e *echo.Echo, addr string, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			logger.Info("starting server", "addr", addr)
			go func() {
				if err := e.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return e.Shutdown(ctx)
		},
	})
}
