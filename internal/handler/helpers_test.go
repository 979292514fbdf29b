package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/client"
	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BatchBodyMaxBytes: 4096},
		Upstream: config.UpstreamConfig{
			TimeoutSeconds:  10,
			IdleConnections: 10,
			ProxyUserAgent:  "Sift-Proxy/1.0",
			BatchUserAgent:  "Sift-RSS-Fetcher/1.0",
		},
	}
}

func newTestProxyHandler() *ProxyHandler {
	cfg := testConfig()
	logger := testLogger()
	uc := client.NewUpstreamClient(cfg, logger, nil)
	return NewProxyHandler(service.NewRelayService(uc, cfg, logger), logger)
}

func newTestBatchHandler() *BatchHandler {
	cfg := testConfig()
	logger := testLogger()
	uc := client.NewUpstreamClient(cfg, logger, nil)
	return NewBatchHandler(service.NewBatchService(uc, cfg, logger, nil), logger)
}

// newTestRelay returns a fully routed relay Echo instance.
func newTestRelay() *echo.Echo {
	d := NewDispatcher(newTestProxyHandler(), newTestBatchHandler(), testConfig())
	e := echo.New()
	RegisterRoutes(e, d, testLogger())
	return e
}

// assertCORS fails the test unless h carries the relay's CORS headers.
func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":   "*",
		"Access-Control-Allow-Methods":  "GET, HEAD, POST, OPTIONS",
		"Access-Control-Expose-Headers": "*",
		"Access-Control-Max-Age":        "86400",
	}
	for key, val := range want {
		if got := h.Values(key); len(got) != 1 || got[0] != val {
			t.Errorf("%s = %q, want [%q]", key, got, val)
		}
	}
	if h.Get("Access-Control-Allow-Headers") == "" {
		t.Error("Access-Control-Allow-Headers missing")
	}
}
