package filter

import (
	"sync/atomic"
	"time"
)

// Clock is the source of "now" for time-relative qualifiers (updated:).
//
// A Clock reads the wall clock until Set pins it to a fixed instant; Reset
// returns it to the wall clock. A nil *Clock is the wall clock.
//
// Thread-safety: Clock is safe for concurrent use (atomic pointer). Evaluators
// receive a Clock explicitly through Env; there is no package-level clock.
type Clock struct {
	fixed atomic.Pointer[time.Time]
}

// NewClock creates a clock reading the wall clock.
func NewClock() *Clock {
	return &Clock{}
}

// FixedClock creates a clock pinned to t.
func FixedClock(t time.Time) *Clock {
	c := &Clock{}
	c.Set(t)
	return c
}

// Now returns the pinned instant, or the wall-clock time when unpinned.
func (c *Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	if t := c.fixed.Load(); t != nil {
		return *t
	}
	return time.Now()
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.fixed.Store(&t)
}

// Reset unpins the clock so it reads the wall clock again.
func (c *Clock) Reset() {
	c.fixed.Store(nil)
}
