package util

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads so the timeline can be driven in tests.
type Clock interface {
	Now() time.Time
}

// TimeProvider is the host local clock.
type TimeProvider struct{}

// Now returns the current host local time.
func (TimeProvider) Now() time.Time {
	return time.Now().In(time.Local)
}

var _ Clock = TimeProvider{}

// FixedClock is a manually advanced clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// WallElapsed returns later-earlier measured on the wall clock.
// Monotonic readings are stripped so a suspended host still counts as elapsed time.
func WallElapsed(earlier, later time.Time) time.Duration {
	return later.Round(0).Sub(earlier.Round(0))
}
