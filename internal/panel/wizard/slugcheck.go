package wizard

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckDelay is how long input must be quiet before a slug probe
// fires.
const DefaultCheckDelay = 500 * time.Millisecond

// Prober answers whether a slug is free. The HTTP API client satisfies it.
type Prober interface {
	SlugAvailable(ctx context.Context, slug string) (bool, error)
}

// CheckResult is what a completed probe reports back.
type CheckResult struct {
	Err       error
	Slug      string
	Available bool
}

// SlugChecker debounces availability probes and orders their results.
// Each probe carries a token from a monotonic counter; a result is applied
// only if no higher token has been applied yet, so a slow early probe can
// never overwrite the answer for what the user actually typed last.
type SlugChecker struct {
	prober   Prober
	onResult func(CheckResult)
	timer    *time.Timer
	delay    time.Duration
	issued   uint64
	applied  uint64
	inFlight int
	mu       sync.Mutex
}

func NewSlugChecker(prober Prober, delay time.Duration, onResult func(CheckResult)) *SlugChecker {
	if delay <= 0 {
		delay = DefaultCheckDelay
	}
	return &SlugChecker{
		prober:   prober,
		delay:    delay,
		onResult: onResult,
	}
}

// Check schedules a probe for slug, replacing any probe still waiting out
// the debounce.
func (c *SlugChecker) Check(ctx context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.probe(ctx, slug)
	})
}

// Cancel drops any pending probe and marks every in-flight result stale.
func (c *SlugChecker) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.issued++
	c.applied = c.issued
}

// InFlight reports whether a probe is running or still waiting out the
// debounce.
func (c *SlugChecker) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0 || c.timer != nil
}

func (c *SlugChecker) probe(ctx context.Context, slug string) {
	c.mu.Lock()
	c.timer = nil
	c.issued++
	token := c.issued
	c.inFlight++
	c.mu.Unlock()

	available, err := c.prober.SlugAvailable(ctx, slug)

	c.mu.Lock()
	c.inFlight--
	stale := token <= c.applied
	if !stale {
		c.applied = token
	}
	c.mu.Unlock()

	if stale || c.onResult == nil {
		return
	}
	c.onResult(CheckResult{Slug: slug, Available: available, Err: err})
}
