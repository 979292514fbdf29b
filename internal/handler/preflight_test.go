package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPreflight(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodOptions, "/anything?url=https://example.com", strings.NewReader("ignored"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Preflight(c); err != nil {
		t.Fatalf("Preflight() error = %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	assertCORS(t, rec.Header())
}
