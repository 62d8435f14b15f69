package testsupport

import (
	"context"
	"sync"
	"time"

	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// FixedClock is a TimeProvider whose time only moves when told to.
// Sleep advances the clock instead of blocking.
type FixedClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFixedClock creates a clock pinned to the given instant
func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{current: at}
}

// Now returns the pinned instant
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Since returns the elapsed time against the pinned instant
func (c *FixedClock) Since(t time.Time) coreport.Duration {
	return coreport.Duration(c.Now().Sub(t))
}

// Until returns the remaining time against the pinned instant
func (c *FixedClock) Until(t time.Time) coreport.Duration {
	return coreport.Duration(t.Sub(c.Now()))
}

// Sleep advances the clock without blocking
func (c *FixedClock) Sleep(d coreport.Duration) {
	c.Advance(d.Std())
}

// WithTimeout returns a cancellable context, the deadline is not enforced
func (c *FixedClock) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

// ParseDuration parses a duration string
func (c *FixedClock) ParseDuration(s string) (coreport.Duration, error) {
	d, err := time.ParseDuration(s)
	return coreport.Duration(d), err
}
