// Package route decides which relay handler serves an inbound request.
package route

import "net/http"

// BatchPath is the only path with a dedicated handler.
const BatchPath = "/batch"

// Kind identifies a relay handler.
type Kind int

const (
	Proxy Kind = iota
	Preflight
	Batch
)

// Of selects the handler for a request. OPTIONS always means preflight,
// POST /batch is the batch endpoint, and everything else is proxied.
func Of(method, path string) Kind {
	switch {
	case method == http.MethodOptions:
		return Preflight
	case method == http.MethodPost && path == BatchPath:
		return Batch
	default:
		return Proxy
	}
}

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case Preflight:
		return "preflight"
	case Batch:
		return "batch"
	default:
		return "proxy"
	}
}
