package search

import (
	"sync"
	"time"

	"quickdash/internal/domain"
)

// filterBudget bounds a single batch de-dup pass. A pathological batch is
// cut short and the items processed so far are kept.
const filterBudget = 1000 * time.Millisecond

// Accumulator merges the streamed result batches of one disk search into
// an ordered, path-de-duplicated accumulation. The authoritative response
// that resolves the search call replaces the accumulation wholesale; any
// batch arriving after that is a no-op.
type Accumulator struct {
	mu      sync.Mutex
	req     *Request
	items   []domain.SearchResult
	index   map[string]int // path -> position in items
	total   int
	current int
	final   bool
}

// NewAccumulator creates an accumulator owned by the given request
func NewAccumulator(req *Request) *Accumulator {
	return &Accumulator{
		req:   req,
		index: make(map[string]int),
	}
}

// ApplyBatch merges one streamed batch. Returns the number of novel items
// appended and whether the batch was applied at all. Batches are dropped
// when tagged with a different request, when the owning request has been
// cancelled, or after finalization.
func (a *Accumulator) ApplyBatch(ev domain.BatchEvent) (int, bool) {
	if ev.RequestID != a.req.ID || a.req.Cancelled() {
		return 0, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.final {
		return 0, false
	}

	deadline := time.Now().Add(filterBudget)
	added := 0
	for i, r := range ev.Results {
		if _, dup := a.index[r.Path]; dup {
			continue
		}
		a.index[r.Path] = len(a.items)
		a.items = append(a.items, r)
		added++

		// Soft budget: keep what we have rather than stalling the loop
		if i%256 == 255 && time.Now().After(deadline) {
			break
		}
	}

	a.total = ev.TotalCount
	a.current = ev.CurrentCount
	return added, true
}

// Finalize replaces the streamed accumulation with the authoritative full
// result list. First occurrence wins on duplicate paths. Returns false if
// the request was cancelled or the accumulation is already final.
func (a *Accumulator) Finalize(results []domain.SearchResult, totalCount int) bool {
	if a.req.Cancelled() {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.final {
		return false
	}

	items := make([]domain.SearchResult, 0, len(results))
	index := make(map[string]int, len(results))
	for _, r := range results {
		if _, dup := index[r.Path]; dup {
			continue
		}
		index[r.Path] = len(items)
		items = append(items, r)
	}

	a.items = items
	a.index = index
	a.total = totalCount
	a.current = len(items)
	a.final = true
	return true
}

// Items returns a copy of the accumulated results in insertion order
func (a *Accumulator) Items() []domain.SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := make([]domain.SearchResult, len(a.items))
	copy(items, a.items)
	return items
}

// Len returns the number of accumulated items
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// TotalCount returns the source's current estimate of total matches
func (a *Accumulator) TotalCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// CurrentCount returns the number of items the source has delivered
func (a *Accumulator) CurrentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// IsFinal reports whether the authoritative response has been applied
func (a *Accumulator) IsFinal() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.final
}

// Request returns the owning request
func (a *Accumulator) Request() *Request {
	return a.req
}
