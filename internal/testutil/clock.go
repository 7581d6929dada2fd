package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is the fixed "now" used across tests and fixtures.
var ReferenceTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// HoursBefore returns ReferenceTime minus h hours.
func HoursBefore(h int) time.Time {
	return ReferenceTime.Add(-time.Duration(h) * time.Hour)
}

// TickingClock is a deterministic time source for tests.
//
// Each call to Now returns the start time advanced by one more step, so
// records stamped by successive calls get distinct, reproducible times.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type TickingClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	ticks int64
}

// NewTickingClock creates a clock starting at ReferenceTime with a one-second step.
//
// The first call to Now() returns ReferenceTime.
func NewTickingClock() *TickingClock {
	return &TickingClock{start: ReferenceTime, step: time.Second}
}

// Now returns the next instant.
func (c *TickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return t
}

// Reset rewinds the clock so the next Now() returns the start time again.
func (c *TickingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
