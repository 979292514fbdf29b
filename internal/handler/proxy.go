package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/cors"
	"sift-proxy-go/internal/model"
	"sift-proxy-go/internal/service"
)

// ProxyHandler relays a single request to the target named by the url query
// parameter and streams the response back.
type ProxyHandler struct {
	service *service.RelayService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.RelayService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Handle forwards the request and streams the target's response back.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	target := c.QueryParam("url")
	if target == "" {
		return plainText(c, http.StatusBadRequest, `Missing "url" parameter`)
	}

	rr := &model.RelayRequest{
		Ctx:           req.Context(),
		Method:        req.Method,
		Target:        target,
		Header:        req.Header,
		Body:          req.Body,
		ContentLength: req.ContentLength,
	}

	resp, err := h.service.Forward(rr)
	if err != nil {
		h.logger.Warn("proxy error",
			"err", err,
			"method", req.Method,
		)
		return plainText(c, http.StatusBadGateway, "Proxy Error: "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	header := c.Response().Header()
	for key, vals := range resp.Header {
		header[key] = vals
	}
	// Last, so the relay's CORS policy always wins over the target's.
	cors.Apply(header)

	c.Response().WriteHeader(resp.StatusCode)

	// Stream the target body directly to the client. If io.Copy fails
	// mid-stream (e.g. client disconnect), the status code has already been
	// sent, so the client receives a truncated response with the original
	// status. The error is only logged.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"method", req.Method,
		)
	}

	return nil
}
