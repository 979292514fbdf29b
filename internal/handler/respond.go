package handler

import (
	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/cors"
)

// plainText writes a text/plain response with CORS headers applied.
func plainText(c echo.Context, code int, msg string) error {
	cors.Apply(c.Response().Header())
	return c.String(code, msg)
}
