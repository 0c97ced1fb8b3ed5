// Package semaphore implements a counting semaphore with blocking, timed,
// and non-blocking acquire, built on a stdlib sync.Mutex and sync.Cond in
// the same style as package cond (this package predates — and does not
// depend on — cond, since a semaphore only ever needs to wait on its own
// private mutex, never a caller-supplied one).
package semaphore

import (
	"sync"
	"time"
)

// Semaphore is a counting semaphore.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

// New creates a Semaphore with the given initial count.
func New(initialCount int) *Semaphore {
	s := &Semaphore{count: initialCount}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Acquire blocks until the count is positive, then decrements it by one.
func (s *Semaphore) Acquire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count <= 0 {
		s.cond.Wait()
	}
	s.count--
}

// Release increments the count by k and wakes all waiters. A non-positive k
// is ignored.
func (s *Semaphore) Release(k int) {
	if k <= 0 {
		return
	}
	s.mu.Lock()
	s.count += k
	s.mu.Unlock()
	s.cond.Broadcast()
}

// TryAcquire attempts to acquire k units (k<=0 always succeeds) without
// blocking. It reports whether it succeeded.
func (s *Semaphore) TryAcquire(k int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k <= 0 || s.count >= k {
		s.count -= k
		return true
	}
	return false
}

// TryAcquireFor attempts to acquire a single unit, giving up after timeout.
// It reports whether the unit was acquired.
func (s *Semaphore) TryAcquireFor(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	timedOut := false
	timer := time.AfterFunc(timeout, func() {
		s.mu.Lock()
		timedOut = true
		s.mu.Unlock()
		s.cond.Broadcast()
	})
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.count <= 0 {
		if timedOut || !time.Now().Before(deadline) {
			return false
		}
		s.cond.Wait()
	}
	s.count--
	return true
}

// Value returns a snapshot of the current count, for tests and debugging
// only — it is read under the mutex, but may be stale as soon as it returns.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
