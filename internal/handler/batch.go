package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/cors"
	"sift-proxy-go/internal/model"
	"sift-proxy-go/internal/service"
)

const invalidBatchRequest = `Invalid Request: "urls" must be an array`

// BatchHandler serves POST /batch: one GET per listed URL, one JSON reply.
type BatchHandler struct {
	service *service.BatchService
	logger  *slog.Logger
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(svc *service.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  logger.With("component", "batch_handler"),
	}
}

// Handle parses the URL list, fetches every URL and replies with the results
// in request order.
func (h *BatchHandler) Handle(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		// Body limit violations keep their own status.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		h.logger.Error("reading batch body", "err", err)
		return plainText(c, http.StatusInternalServerError, "Batch Error: "+err.Error())
	}

	var br model.BatchRequest
	if err := json.Unmarshal(body, &br); err != nil || br.URLs == nil {
		return plainText(c, http.StatusBadRequest, invalidBatchRequest)
	}

	results := h.service.FetchAll(req.Context(), *br.URLs, req.Header.Get("User-Agent"))

	cors.Apply(c.Response().Header())
	return c.JSON(http.StatusOK, model.BatchResponse{Results: results})
}
