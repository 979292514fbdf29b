// Package cors stamps the relay's permissive CORS headers onto responses.
package cors

import "net/http"

// Header values applied to every relay response.
const (
	AllowOrigin   = "*"
	AllowMethods  = "GET, HEAD, POST, OPTIONS"
	AllowHeaders  = "Content-Type, Authorization, X-Requested-With, Range, Git-Protocol, User-Agent, If-None-Match, If-Modified-Since, Cache-Control, Pragma"
	ExposeHeaders = "*"
	MaxAge        = "86400"
)

// Apply sets the CORS headers on h, overwriting any existing values.
// It must run last on every response so upstream CORS headers never win.
func Apply(h http.Header) {
	h.Set("Access-Control-Allow-Origin", AllowOrigin)
	h.Set("Access-Control-Allow-Methods", AllowMethods)
	h.Set("Access-Control-Allow-Headers", AllowHeaders)
	h.Set("Access-Control-Expose-Headers", ExposeHeaders)
	h.Set("Access-Control-Max-Age", MaxAge)
}
