package search

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Request represents one live search against a single source. Exactly one
// request is live per source; committing a new query cancels the prior
// request, and anything it resolves with afterwards is dropped.
type Request struct {
	ID        string
	Query     string
	cancelled atomic.Bool
}

// NewRequest creates a request for the given committed query
func NewRequest(query string) *Request {
	return &Request{
		ID:    uuid.NewString(),
		Query: query,
	}
}

// Cancel marks the request as superseded. Safe to call more than once.
func (r *Request) Cancel() {
	if r != nil {
		r.cancelled.Store(true)
	}
}

// Cancelled reports whether the request has been superseded
func (r *Request) Cancelled() bool {
	return r != nil && r.cancelled.Load()
}
