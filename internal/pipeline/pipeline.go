// Package pipeline composes request handling as an explicit chain of stages.
//
// A Handler produces either a Response or an error. A Stage wraps a Handler and may observe or replace
// what flows back through it. Chains are composed once at startup with Chain and served per request with Serve.
package pipeline

import (
	"net/http"
)

// Response is the successful result of a Handler.
type Response struct {
	// Status is the HTTP status to write. Zero means 200.
	Status int

	// Body is encoded as JSON.
	Body any
}

// Handler handles a single request.
type Handler func(r *http.Request) (*Response, error)

// Stage wraps a Handler.
type Stage func(next Handler) Handler

// OK returns a 200 Response with the given body.
func OK(body any) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

// Chain applies stages to h. The first stage is the outermost, so it sees the request first
// and the result last.
func Chain(h Handler, stages ...Stage) Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		if stages[i] == nil {
			continue
		}
		h = stages[i](h)
	}
	return h
}
