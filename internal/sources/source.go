package sources

import (
	"context"
	"errors"

	"quickdash/internal/domain"
)

// ErrUnavailable marks the backend-unavailable failure class: the
// external service is not installed or not running, as opposed to a
// transient fetch error. Triggers a one-shot availability re-check.
var ErrUnavailable = errors.New("search backend unavailable")

// Provider is the uniform contract every search source implements. A
// provider must be safe to call concurrently with itself; cancellation
// bookkeeping belongs to the caller, not the provider.
type Provider interface {
	Kind() domain.ResultKind
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// DiskSearcher is the streaming contract of the external disk-index
// backend. Search emits tagged batch events on batches while the call is
// in flight and resolves with the authoritative full list and total.
type DiskSearcher interface {
	Status(ctx context.Context) domain.SourceStatus
	Search(ctx context.Context, requestID, query string, batches chan<- domain.BatchEvent) ([]domain.SearchResult, int, error)
	Launch(ctx context.Context, path string) error
	Reveal(ctx context.Context, path string) error
}
