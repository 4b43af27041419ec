package web

// limiter.go implements concurrency control for parse requests.
//
// The limiter uses a semaphore pattern to restrict parallel parses to a
// configurable maximum, preventing resource exhaustion under load. When all
// slots are occupied, new requests wait up to maxWait before failing with
// ErrTooManyParses.
//
// The limiter also supports graceful shutdown via WaitForDrain, which blocks
// until all active parses complete.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyParses is returned when all parse slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyParses = errors.New("too many concurrent parse requests, please try again later")

// DefaultMaxConcurrentParses is the default limit for parallel parses.
const DefaultMaxConcurrentParses = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ParseLimiter controls concurrent parse processing using a semaphore pattern.
type ParseLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewParseLimiter creates a limiter that allows at most maxConcurrent
// simultaneous parses. Requests that cannot acquire a slot within maxWait
// receive ErrTooManyParses.
func NewParseLimiter(maxConcurrent int, maxWait time.Duration) *ParseLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentParses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &ParseLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a parse slot.
// Returns nil on success, ErrTooManyParses if the wait timeout expires.
// The caller MUST call Release() when the parse completes (use defer).
func (l *ParseLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from slot timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyParses

	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *ParseLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently active parses.
func (l *ParseLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the maximum allowed concurrent parses.
func (l *ParseLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of available slots.
func (l *ParseLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active parses complete or ctx is cancelled.
// Used for graceful shutdown.
func (l *ParseLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}
