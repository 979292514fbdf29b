// Package model defines shared types for the relay.
package model

import (
	"context"
	"io"
	"net/http"
)

// RelayRequest represents a client request to be forwarded to a target.
type RelayRequest struct {
	Ctx           context.Context
	Method        string
	Target        string
	Header        http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// RelayResponse represents the upstream response to be streamed back.
type RelayResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       io.ReadCloser
}

// BatchRequest is the body accepted by the batch endpoint. URLs is a pointer
// so that a missing or null field can be told apart from an empty array.
type BatchRequest struct {
	URLs *[]string `json:"urls"`
}

// FetchResult is the outcome of one batch fetch. Content and Headers are set
// only when OK is true; Error only when it is false.
type FetchResult struct {
	URL     string            `json:"url"`
	OK      bool              `json:"ok"`
	Status  int               `json:"status"`
	Error   string            `json:"error,omitempty"`
	Content *string           `json:"content,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// BatchResponse holds one result per requested URL, in request order.
type BatchResponse struct {
	Results []FetchResult `json:"results"`
}
