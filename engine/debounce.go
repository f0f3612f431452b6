package engine

import (
	"time"
)

// debouncer collapses bursts of triggers into one due event.
// It holds a deadline instead of a timer so it can be polled from the window thread.
type debouncer struct {
	wait     time.Duration
	deadline time.Time
	pending  bool
	now      func() time.Time
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait, now: time.Now}
}

// trigger pushes the deadline wait past now.
func (d *debouncer) trigger() {
	d.deadline = d.now().Add(d.wait)
	d.pending = true
}

// due reports true once per burst, after the last trigger has settled.
func (d *debouncer) due() bool {
	if !d.pending || d.now().Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

// reset drops any pending event.
func (d *debouncer) reset() {
	d.pending = false
}
