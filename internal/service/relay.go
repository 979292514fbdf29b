// Package service implements the relay's forwarding and batch-fetch logic.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"sift-proxy-go/internal/client"
	"sift-proxy-go/internal/config"
	"sift-proxy-go/internal/model"
)

// strippedRequestHeaders identify the caller or the relay hop and are never
// forwarded to the target.
var strippedRequestHeaders = []string{
	"Host",
	"Referer",
	"Origin",
	"Cf-Connecting-Ip",
	"True-Client-Ip",
	"X-Real-Ip",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"Forwarded",
}

// hopByHopHeaders apply to a single connection and must not be relayed.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// strippedResponseHeaders would stop the calling origin from embedding or
// using the relayed content.
var strippedResponseHeaders = []string{
	"X-Frame-Options",
	"Content-Security-Policy",
}

// RelayService forwards single requests to caller-chosen targets.
type RelayService struct {
	client    *client.UpstreamClient
	logger    *slog.Logger
	userAgent string
}

// NewRelayService creates a RelayService.
func NewRelayService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *RelayService {
	return &RelayService{
		client:    c,
		logger:    logger.With("component", "relay_service"),
		userAgent: cfg.Upstream.ProxyUserAgent,
	}
}

// SanitizeTarget repairs a target URL as sent by a client: one leading slash
// is dropped and https:// is assumed when no http(s) scheme is present. The
// result is not validated; malformed targets fail at fetch time.
func SanitizeTarget(raw string) string {
	target := strings.TrimPrefix(raw, "/")
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}
	return target
}

// Forward sends a RelayRequest to its target and returns the response with
// its body still streaming. Bodies are forwarded for every method except GET
// and HEAD. The caller is responsible for closing the response body.
func (s *RelayService) Forward(rr *model.RelayRequest) (*model.RelayResponse, error) {
	target := SanitizeTarget(rr.Target)
	header := s.sanitizeRequestHeaders(rr.Header)

	s.logger.Debug("forwarding request",
		"method", rr.Method,
		"target", target,
	)

	var body io.Reader
	var contentLength int64
	if hasBody(rr) {
		body = rr.Body
		contentLength = rr.ContentLength
	}

	resp, err := s.client.DoStream(rr.Ctx, rr.Method, target, header, body, contentLength)
	if err != nil {
		return nil, fmt.Errorf("forward to %s: %w", target, err)
	}

	resp.Header = filterResponseHeaders(resp.Header)
	return resp, nil
}

func hasBody(rr *model.RelayRequest) bool {
	if rr.Method == http.MethodGet || rr.Method == http.MethodHead {
		return false
	}
	return rr.Body != nil && rr.Body != http.NoBody
}

// sanitizeRequestHeaders copies src without identity-leaking and hop-by-hop
// headers and fills in a User-Agent when the caller sent none. Everything
// else, Authorization and Git-Protocol included, is forwarded as is.
func (s *RelayService) sanitizeRequestHeaders(src http.Header) http.Header {
	dst := src.Clone()
	if dst == nil {
		dst = make(http.Header)
	}
	for _, key := range strippedRequestHeaders {
		dst.Del(key)
	}
	for _, key := range hopByHopHeaders {
		dst.Del(key)
	}
	// Set by the transport from the actual body.
	dst.Del("Content-Length")

	if dst.Get("User-Agent") == "" {
		dst.Set("User-Agent", s.userAgent)
	}
	return dst
}

// filterResponseHeaders copies src without hop-by-hop and framing-policy headers.
func filterResponseHeaders(src http.Header) http.Header {
	dst := src.Clone()
	if dst == nil {
		dst = make(http.Header)
	}
	for _, key := range hopByHopHeaders {
		dst.Del(key)
	}
	for _, key := range strippedResponseHeaders {
		dst.Del(key)
	}
	return dst
}
