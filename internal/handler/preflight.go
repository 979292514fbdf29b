package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/cors"
)

// Preflight answers CORS preflight requests for any path. The request itself
// is never inspected.
func Preflight(c echo.Context) error {
	cors.Apply(c.Response().Header())
	return c.NoContent(http.StatusNoContent)
}
