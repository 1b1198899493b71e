package debounce

import (
	"sync"
	"time"
)

// Debouncer delays a function until calls have stopped arriving for the
// configured interval. Each Trigger replaces the pending function and restarts
// the timer, so at most one call is pending at any time.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	stopped bool
}

// New returns a Debouncer with the given quiet interval
func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn to run after the interval, cancelling any pending call.
// It does nothing after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.interval, func() { d.fire(gen) })
}

// fire runs the pending call if it still belongs to generation gen. A timer
// that was stopped too late to prevent its callback finds a newer generation
// and returns.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending call immediately on the calling goroutine. It
// reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a call is waiting for its timer
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels the pending call and rejects future triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.timer = nil
	d.gen++
	d.stopped = true
}
