package search

import (
	"strings"
	"sync"
	"time"
)

// Dispatcher turns raw keystroke input into a throttled stream of
// committed queries. Each keystroke resets the pending timer, so exactly
// one commit happens per debounce window.
type Dispatcher struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	onQuery func(query string)
	onClear func()
}

// NewDispatcher creates a dispatcher. onQuery fires for a committed
// non-empty query; onClear fires when the committed query is empty.
func NewDispatcher(delay time.Duration, onQuery func(string), onClear func()) *Dispatcher {
	return &Dispatcher{
		delay:   delay,
		onQuery: onQuery,
		onClear: onClear,
	}
}

// OnQueryChange schedules a commit of raw, cancelling any pending commit
func (d *Dispatcher) OnQueryChange(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.commit(raw)
	})
}

// Flush commits any pending query immediately. Used when the user forces
// a search (e.g. presses Enter before the window elapses).
func (d *Dispatcher) Flush(raw string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.commit(raw)
}

// Stop cancels any pending commit without firing it
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dispatcher) commit(raw string) {
	query := strings.TrimSpace(raw)
	if query == "" {
		d.onClear()
		return
	}
	d.onQuery(query)
}
