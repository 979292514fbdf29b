package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"sift-proxy-go/internal/cors"
)

// ErrorHandler replaces echo's default JSON error handler on the relay. It
// covers errors raised outside the relay handlers (body limit, recovered
// panics, router fallbacks) and answers in plain text with CORS headers, like
// every other relay response.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}

		if code >= http.StatusInternalServerError {
			logger.Error("unhandled error",
				"err", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
			)
		}

		cors.Apply(c.Response().Header())

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.String(code, msg)
		}
		if werr != nil {
			logger.Error("writing error response", "err", werr)
		}
	}
}
