package scroll

import (
	"sync"
	"time"

	"github.com/mainbong/restaurant_finder/internal/logger"
)

// DefaultCooldown is the minimum spacing between two triggered fetches.
const DefaultCooldown = 2 * time.Second

// Source reports whether more pages exist and whether one is being loaded.
type Source interface {
	HasMore() bool
	Loading() bool
}

// Timer is a pending deferred fetch.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the cooldown explicitly.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Coordinator turns visibility changes of the end-of-list sentinel into
// page fetches, at most one per cooldown period.
type Coordinator struct {
	source   Source
	fetch    func()
	cooldown time.Duration
	clock    Clock

	mu          sync.Mutex
	visible     bool
	lastTrigger time.Time
	pending     Timer
	generation  int
	stopped     bool
}

// NewCoordinator creates a coordinator calling fetch when the sentinel
// becomes visible. A non-positive cooldown means DefaultCooldown.
func NewCoordinator(source Source, fetch func(), cooldown time.Duration) *Coordinator {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Coordinator{
		source:   source,
		fetch:    fetch,
		cooldown: cooldown,
		clock:    realClock{},
	}
}

// SetClock replaces the clock (for testing).
func (c *Coordinator) SetClock(clock Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Cooldown returns the configured cooldown.
func (c *Coordinator) Cooldown() time.Duration {
	return c.cooldown
}

// Pending reports whether a deferred fetch is scheduled.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// SetVisible records whether the sentinel is on screen. Becoming visible
// fetches immediately when the cooldown has elapsed, otherwise a fetch is
// deferred for the remaining time. Becoming invisible cancels it.
func (c *Coordinator) SetVisible(visible bool) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.visible = visible
	if !visible {
		c.cancelLocked()
		c.mu.Unlock()
		return
	}
	if !c.source.HasMore() || c.source.Loading() {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	elapsed := now.Sub(c.lastTrigger)
	if c.lastTrigger.IsZero() || elapsed >= c.cooldown {
		c.cancelLocked()
		c.lastTrigger = now
		c.mu.Unlock()
		c.fetch()
		return
	}

	c.cancelLocked()
	remaining := c.cooldown - elapsed
	c.generation++
	gen := c.generation
	c.pending = c.clock.AfterFunc(remaining, func() { c.fire(gen) })
	c.mu.Unlock()
	logger.Debug("scroll fetch deferred by %s", remaining)
}

func (c *Coordinator) fire(gen int) {
	c.mu.Lock()
	if c.stopped || gen != c.generation || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	if !c.visible || !c.source.HasMore() || c.source.Loading() {
		c.mu.Unlock()
		return
	}
	c.lastTrigger = c.clock.Now()
	c.mu.Unlock()
	c.fetch()
}

// Stop cancels any pending fetch and ignores further visibility changes.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.stopped = true
}

func (c *Coordinator) cancelLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.generation++
}
