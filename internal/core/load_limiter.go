package core

// load_limiter.go bounds how many pipeline runs may be reading the source at
// once. Every page view triggers a fresh load, so a burst of requests would
// otherwise become a burst of fetches against the upstream.
//
// A run that cannot get a slot within maxWait fails with ErrTooManyLoads.
// WaitForDrain lets shutdown wait for in-flight loads.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyLoads is returned when every load slot stays busy for maxWait.
var ErrTooManyLoads = errors.New("too many concurrent source loads")

// LoadLimiter is a semaphore over source loads.
type LoadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// LoadLimiterStatus is a snapshot of a LoadLimiter.
type LoadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// NewLoadLimiter allows at most maxConcurrent loads. It returns nil when
// maxConcurrent is not positive; a nil limiter never blocks.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		return nil
	}
	return &LoadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must call Release once it returns nil.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyLoads
	}
}

// Release frees a slot taken by Acquire.
func (l *LoadLimiter) Release() {
	if l == nil {
		return
	}
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of loads holding a slot.
func (l *LoadLimiter) ActiveCount() int {
	if l == nil {
		return 0
	}
	return int(l.active.Load())
}

// WaitForDrain blocks until no load holds a slot or ctx is done.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	if l == nil {
		return nil
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Status returns the current limiter state for logging.
func (l *LoadLimiter) Status() LoadLimiterStatus {
	if l == nil {
		return LoadLimiterStatus{}
	}
	return LoadLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
