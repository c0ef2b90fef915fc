package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
	"quickdash/internal/sources"
)

// registration binds a provider to the result kinds it owns. Most
// providers own exactly one kind; the detector owns several.
type registration struct {
	provider sources.Provider
	kinds    []domain.ResultKind
}

// Coordinator owns the per-source live requests and the shared result
// state. It enforces last-committed-query-wins: a request's results are
// applied only if that request is still the current one at resolution
// time, checked again after every await.
type Coordinator struct {
	log  *zap.SugaredLogger
	bus  eventbus.EventBus
	ctx  context.Context
	regs []registration
	disk sources.DiskSearcher

	mu      sync.Mutex
	query   string
	live    map[sources.Provider]*Request
	diskReq *Request
	results map[domain.ResultKind][]domain.SearchResult
	failed  map[domain.ResultKind]error
	acc     *Accumulator
	diskOff bool // availability flag said no; suppress calls until re-probe
}

// Snapshot is a consistent copy of the current result state for merging
type Snapshot struct {
	Query     string
	Sets      map[domain.ResultKind][]domain.SearchResult
	Disk      []domain.SearchResult
	DiskTotal int
	DiskFinal bool
	DiskOff   bool
}

// NewCoordinator creates a coordinator. disk may be nil when the
// disk-search source is disabled by configuration.
func NewCoordinator(ctx context.Context, log *zap.SugaredLogger, bus eventbus.EventBus, disk sources.DiskSearcher) *Coordinator {
	return &Coordinator{
		log:     log,
		bus:     bus,
		ctx:     ctx,
		disk:    disk,
		live:    make(map[sources.Provider]*Request),
		results: make(map[domain.ResultKind][]domain.SearchResult),
		failed:  make(map[domain.ResultKind]error),
	}
}

// Register adds a provider. kinds defaults to the provider's own kind.
func (c *Coordinator) Register(p sources.Provider, kinds ...domain.ResultKind) {
	if len(kinds) == 0 {
		kinds = []domain.ResultKind{p.Kind()}
	}
	c.regs = append(c.regs, registration{provider: p, kinds: kinds})
}

// Search commits a query: cancels every prior live request and fires all
// registered sources concurrently.
func (c *Coordinator) Search(query string) {
	c.mu.Lock()
	c.query = query
	for _, req := range c.live {
		req.Cancel()
	}
	c.diskReq.Cancel()
	c.failed = make(map[domain.ResultKind]error)

	reqs := make(map[sources.Provider]*Request, len(c.regs))
	for _, reg := range c.regs {
		req := NewRequest(query)
		c.live[reg.provider] = req
		reqs[reg.provider] = req
	}

	runDisk := c.disk != nil && !c.diskOff
	var diskReq *Request
	var acc *Accumulator
	if runDisk {
		diskReq = NewRequest(query)
		acc = NewAccumulator(diskReq)
		c.diskReq = diskReq
		c.acc = acc
	} else {
		c.diskReq = nil
		c.acc = nil
	}
	c.mu.Unlock()

	c.bus.Publish(domain.QueryCommittedEvent{Query: query})

	for _, reg := range c.regs {
		go c.runProvider(reg, reqs[reg.provider])
	}
	if runDisk {
		go c.runDisk(diskReq, acc)
	}
}

// Clear cancels all live requests and drops every source's result set.
// Called synchronously when the committed query is empty.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.query = ""
	for _, req := range c.live {
		req.Cancel()
	}
	c.diskReq.Cancel()
	c.diskReq = nil
	c.acc = nil
	c.results = make(map[domain.ResultKind][]domain.SearchResult)
	c.failed = make(map[domain.ResultKind]error)
	c.mu.Unlock()

	c.bus.Publish(domain.QueryClearedEvent{})
}

// Snapshot returns a copy of the current result state. Safe to call from
// any goroutine; the merger runs over the copy.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{
		Query:   c.query,
		Sets:    make(map[domain.ResultKind][]domain.SearchResult, len(c.results)),
		DiskOff: c.diskOff,
	}
	for kind, results := range c.results {
		cp := make([]domain.SearchResult, len(results))
		copy(cp, results)
		snap.Sets[kind] = cp
	}
	acc := c.acc
	c.mu.Unlock()

	if acc != nil {
		snap.Disk = acc.Items()
		snap.DiskTotal = acc.TotalCount()
		snap.DiskFinal = acc.IsFinal()
	}
	return snap
}

// DiskEnabled reports whether disk-search calls are currently allowed
func (c *Coordinator) DiskEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disk != nil && !c.diskOff
}

// FailedSources returns the kinds whose last adapter call failed
func (c *Coordinator) FailedSources() map[domain.ResultKind]error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[domain.ResultKind]error, len(c.failed))
	for kind, err := range c.failed {
		out[kind] = err
	}
	return out
}

// RetryDisk re-probes the disk backend and, if it is back, re-runs the
// current query. Wired to the inline retry control.
func (c *Coordinator) RetryDisk() {
	reprober, ok := c.disk.(interface{ Reprobe(context.Context) bool })
	if !ok {
		return
	}

	available := reprober.Reprobe(c.ctx)
	c.mu.Lock()
	c.diskOff = !available
	query := c.query
	c.mu.Unlock()

	c.bus.Publish(domain.AvailabilityChangedEvent{
		Kind:   domain.KindEverything,
		Status: domain.SourceStatus{Available: available},
	})

	if available && query != "" {
		c.Search(query)
	}
}

func (c *Coordinator) runProvider(reg registration, req *Request) {
	results, err := reg.provider.Search(c.ctx, req.Query)

	// A superseded request must never touch shared state, success or not
	if req.Cancelled() {
		return
	}

	if err != nil {
		c.log.Warnw("source search failed", "kind", reg.provider.Kind(), "error", err)
		c.mu.Lock()
		if c.live[reg.provider] == req {
			c.failed[reg.provider.Kind()] = err
			if !keepLastOnFailure(reg.provider.Kind()) {
				for _, kind := range reg.kinds {
					delete(c.results, kind)
				}
			}
		}
		c.mu.Unlock()
		c.bus.Publish(domain.SourceFailedEvent{Kind: reg.provider.Kind(), Query: req.Query, Err: err})
		return
	}

	grouped := make(map[domain.ResultKind][]domain.SearchResult)
	for _, r := range results {
		grouped[r.Kind] = append(grouped[r.Kind], r)
	}

	c.mu.Lock()
	if c.live[reg.provider] != req {
		c.mu.Unlock()
		return
	}
	for _, kind := range reg.kinds {
		if rs := grouped[kind]; len(rs) > 0 {
			c.results[kind] = rs
		} else {
			delete(c.results, kind)
		}
	}
	c.mu.Unlock()

	for _, kind := range reg.kinds {
		c.bus.Publish(domain.SourceResultsEvent{Kind: kind, Query: req.Query, Results: grouped[kind]})
	}
}

func (c *Coordinator) runDisk(req *Request, acc *Accumulator) {
	batches := make(chan domain.BatchEvent, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range batches {
			if added, ok := acc.ApplyBatch(ev); ok && added > 0 {
				c.bus.Publish(domain.DiskBatchEvent{
					Query:        req.Query,
					Accumulated:  acc.Len(),
					TotalCount:   acc.TotalCount(),
					CurrentCount: acc.CurrentCount(),
				})
			}
		}
	}()

	results, total, err := c.disk.Search(c.ctx, req.ID, req.Query, batches)
	close(batches)
	<-done

	if req.Cancelled() {
		return
	}

	if err != nil {
		c.log.Warnw("disk search failed", "error", err)
		c.mu.Lock()
		current := c.diskReq == req
		if current {
			// Disk results are cleared on failure, unlike apps/history
			c.acc = nil
			c.failed[domain.KindEverything] = err
		}
		c.mu.Unlock()
		if !current {
			return
		}

		c.bus.Publish(domain.SourceFailedEvent{Kind: domain.KindEverything, Query: req.Query, Err: err})

		if errors.Is(err, sources.ErrUnavailable) {
			c.recheckDisk()
		}
		return
	}

	if acc.Finalize(results, total) {
		c.bus.Publish(domain.DiskFinalizedEvent{Query: req.Query, TotalCount: total})
	}
}

// recheckDisk performs the one-shot availability re-check that follows a
// backend-unavailable failure, flipping the suppression flag.
func (c *Coordinator) recheckDisk() {
	status := c.disk.Status(c.ctx)

	c.mu.Lock()
	c.diskOff = !status.Available
	c.mu.Unlock()

	c.bus.Publish(domain.AvailabilityChangedEvent{
		Kind:   domain.KindEverything,
		Status: status,
	})
}

// keepLastOnFailure is the per-source failure policy: apps and file
// history keep their last successful results on a transient failure.
func keepLastOnFailure(kind domain.ResultKind) bool {
	switch kind {
	case domain.KindApp, domain.KindFile:
		return true
	}
	return false
}
