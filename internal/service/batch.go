package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sift-proxy-go/internal/client"
	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/metrics"
	"sift-proxy-go/internal/model"
)

// feedAccept is sent with every batch fetch; batch targets are mostly feeds.
const feedAccept = "application/rss+xml, application/xml, text/xml, application/atom+xml, text/html, */*"

// BatchService fetches many URLs concurrently and collects one result per URL.
type BatchService struct {
	client         *client.UpstreamClient
	logger         *slog.Logger
	metrics        *metrics.Metrics
	userAgent      string
	timeout        time.Duration
	maxConcurrency int
}

// NewBatchService creates a BatchService.
// The metrics parameter is optional; pass nil to disable batch metrics recording.
func NewBatchService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *BatchService {
	return &BatchService{
		client:         c,
		logger:         logger.With("component", "batch_service"),
		metrics:        m,
		userAgent:      cfg.Upstream.BatchUserAgent,
		timeout:        time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		maxConcurrency: cfg.Batch.MaxConcurrency,
	}
}

// FetchAll issues one GET per URL and waits for all of them. The returned
// slice is index-aligned with urls. A failing URL yields a failed result and
// never affects the others. userAgent is forwarded when non-empty.
func (s *BatchService) FetchAll(ctx context.Context, urls []string, userAgent string) []model.FetchResult {
	if userAgent == "" {
		userAgent = s.userAgent
	}

	results := make([]model.FetchResult, len(urls))

	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i, u := range urls {
		g.Go(func() error {
			results[i] = s.fetch(ctx, u, userAgent)
			return nil
		})
	}
	_ = g.Wait() // fetch never returns an error; failures live in the results

	if s.metrics != nil {
		s.metrics.BatchSize.Observe(float64(len(urls)))
		for _, r := range results {
			s.metrics.BatchResults.WithLabelValues(strconv.FormatBool(r.OK)).Inc()
		}
	}

	s.logger.Debug("batch complete", "urls", len(urls))
	return results
}

func (s *BatchService) fetch(ctx context.Context, url, userAgent string) model.FetchResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	header := http.Header{}
	header.Set("Accept", feedAccept)
	header.Set("User-Agent", userAgent)

	resp, err := s.client.Get(ctx, url, header)
	if err != nil {
		return failure(url, http.StatusInternalServerError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FetchResult{
			URL:    url,
			OK:     false,
			Status: resp.StatusCode,
			Error:  statusText(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(url, http.StatusInternalServerError, fmt.Errorf("read body: %w", err))
	}
	content := string(body)

	return model.FetchResult{
		URL:     url,
		OK:      true,
		Status:  resp.StatusCode,
		Content: &content,
		Headers: flattenHeader(resp.Header),
	}
}

func failure(url string, status int, err error) model.FetchResult {
	return model.FetchResult{
		URL:    url,
		OK:     false,
		Status: status,
		Error:  err.Error(),
	}
}

// statusText returns the reason phrase the target sent, falling back to the
// standard text for the code.
func statusText(resp *model.RelayResponse) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// flattenHeader turns h into a flat map with lowercase names. Repeated values
// are joined with ", ".
func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key, vals := range h {
		flat[strings.ToLower(key)] = strings.Join(vals, ", ")
	}
	return flat
}
