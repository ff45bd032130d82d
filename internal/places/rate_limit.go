package places

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultMinInterval = time.Second
	DefaultWindow      = time.Minute
	DefaultMaxCalls    = 30
)

var (
	// ErrTooFrequent rejects a call made within the minimum interval of the
	// previous accepted call.
	ErrTooFrequent = errors.New("too many requests, please slow down")
	// ErrRateLimited rejects a call once the trailing window is full.
	ErrRateLimited = errors.New("rate limit exceeded, try again in a minute")
)

// RateLimiter rejects calls instead of queueing them. A call is accepted only
// if at least minInterval passed since the last accepted call and fewer than
// maxCalls were accepted within the trailing window.
type RateLimiter struct {
	minInterval time.Duration
	window      time.Duration
	maxCalls    int
	now         func() time.Time

	mu       sync.Mutex
	gate     *rate.Limiter
	lastCall time.Time
	calls    []time.Time
}

func NewRateLimiter(minInterval, window time.Duration, maxCalls int) *RateLimiter {
	l := &RateLimiter{
		minInterval: minInterval,
		window:      window,
		maxCalls:    maxCalls,
		now:         time.Now,
	}
	l.gate = l.newGate()
	return l
}

// NewDefaultRateLimiter uses the package thresholds.
func NewDefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(DefaultMinInterval, DefaultWindow, DefaultMaxCalls)
}

// SetClock replaces the time source (for testing).
func (l *RateLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *RateLimiter) newGate() *rate.Limiter {
	if l.minInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(l.minInterval), 1)
}

// Allow records a call if it is permitted and returns the rejection reason
// otherwise. Rejected calls leave the state untouched.
func (l *RateLimiter) Allow() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if l.maxCalls > 0 && len(l.calls) >= l.maxCalls {
		return ErrRateLimited
	}
	if !l.gate.AllowN(now, 1) {
		return ErrTooFrequent
	}

	l.lastCall = now
	l.calls = append(l.calls, now)
	return nil
}

// Delay reports how long a caller has to wait before Allow would succeed.
func (l *RateLimiter) Delay() time.Duration {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	var wait time.Duration
	if !l.lastCall.IsZero() && l.minInterval > 0 {
		if remaining := l.minInterval - now.Sub(l.lastCall); remaining > wait {
			wait = remaining
		}
	}
	if l.maxCalls > 0 && len(l.calls) >= l.maxCalls {
		if remaining := l.calls[0].Add(l.window).Sub(now); remaining > wait {
			wait = remaining
		}
	}
	return wait
}

// Wait blocks until a call would be accepted or ctx is done. It does not
// record a call, so the caller's next Allow takes the slot.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := l.Delay()
		if wait <= 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Reset forgets every recorded call.
func (l *RateLimiter) Reset() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gate = l.newGate()
	l.lastCall = time.Time{}
	l.calls = nil
}

// LastCall returns the time of the last accepted call.
func (l *RateLimiter) LastCall() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastCall
}

func (l *RateLimiter) prune(now time.Time) {
	if l.window <= 0 {
		l.calls = l.calls[:0]
		return
	}
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	l.calls = l.calls[i:]
}

// LimitedClient guards a Searcher with a RateLimiter. Rejected calls never
// reach the wrapped searcher.
type LimitedClient struct {
	next    Searcher
	limiter *RateLimiter
}

func NewLimitedClient(next Searcher, limiter *RateLimiter) *LimitedClient {
	if limiter == nil {
		limiter = NewDefaultRateLimiter()
	}
	return &LimitedClient{next: next, limiter: limiter}
}

func (c *LimitedClient) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	if err := c.limiter.Allow(); err != nil {
		return nil, err
	}
	return c.next.Search(ctx, req)
}

// Limiter exposes the underlying limiter, e.g. to Reset it between tests.
func (c *LimitedClient) Limiter() *RateLimiter {
	return c.limiter
}
