package middleware

import (
	"github.com/labstack/echo/v4"
)

// adminHeaders are set on every admin response. The relay listener must not
// use them: it serves third-party content meant to be framed by callers.
var adminHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"Cache-Control":          "no-store",
}

// SecurityHeaders returns an Echo middleware for the admin listener that
// hardens health, status and metrics responses. Headers are set before the
// handler runs so error responses carry them too.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for key, val := range adminHeaders {
				h.Set(key, val)
			}
			return next(c)
		}
	}
}
