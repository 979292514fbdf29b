// Package client provides the outbound HTTP client used to reach relay targets.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/metrics"
	"sift-proxy-go/internal/model"
)

// UpstreamClient sends requests to arbitrary relay targets.
type UpstreamClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUpstreamClient creates an UpstreamClient with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
//
// There is no overall client timeout: relayed bodies (git packs) may stream for
// minutes. Upstream silence is bounded by ResponseHeaderTimeout instead, and
// batch fetches carry their own per-fetch deadline.
func NewUpstreamClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *UpstreamClient {
	timeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	transport := &http.Transport{
		MaxIdleConns:          cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost:   cfg.Upstream.IdleConnections,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &UpstreamClient{
		httpClient: &http.Client{Transport: transport},
		logger:     logger.With("component", "upstream_client"),
		metrics:    m,
	}
}

// Do executes an HTTP request against a target and returns the raw response.
// Redirects are followed by the underlying http.Client. kind labels the call
// for metrics (metrics.KindProxy or metrics.KindBatch).
// The caller is responsible for closing the response body.
func (c *UpstreamClient) Do(kind string, req *http.Request) (*model.RelayResponse, error) {
	c.logger.Debug("upstream request",
		"kind", kind,
		"method", req.Method,
		"host", req.URL.Host,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:bodyclose // body ownership transfers to caller via RelayResponse
	duration := time.Since(start).Seconds()

	method := metrics.NormalizeMethod(req.Method)

	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamDuration.WithLabelValues(kind, method).Observe(duration)
			c.metrics.UpstreamErrors.WithLabelValues(kind, method).Inc()
		}
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	if c.metrics != nil {
		status := strconv.Itoa(resp.StatusCode)
		c.metrics.UpstreamDuration.WithLabelValues(kind, method).Observe(duration)
		c.metrics.UpstreamResponses.WithLabelValues(kind, method, status).Inc()
	}

	return &model.RelayResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// DoStream executes a request whose body, if any, is streamed to the target,
// and returns the response body as a stream. contentLength follows the
// http.Request convention: -1 means unknown.
// The caller is responsible for closing the returned ReadCloser.
// The provided context controls the lifetime of the upstream request:
// when the context is canceled (e.g. client disconnects), the upstream
// request is also canceled.
func (c *UpstreamClient) DoStream(ctx context.Context, method, url string, header http.Header, body io.Reader, contentLength int64) (*model.RelayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header
	if body != nil {
		req.ContentLength = contentLength
	}

	return c.Do(metrics.KindProxy, req)
}

// Get issues a GET for the batch endpoint. The caller is responsible for
// closing the response body.
func (c *UpstreamClient) Get(ctx context.Context, url string, header http.Header) (*model.RelayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = header

	return c.Do(metrics.KindBatch, req)
}
