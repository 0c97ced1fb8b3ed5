// Package cond implements a condition variable generic over any mutex that
// exposes Lock/Unlock, expressing the "works with any Lock-shaped type"
// requirement as a compile-time capability rather than a runtime interface
// with dynamic dispatch.
//
// Waiters are tracked as a FIFO list of per-waiter signal slots protected by
// an internal sync.Mutex, independent of the caller-supplied mutex M. This is
// what prevents the classic lost-wakeup: a goroutine is added to the waiter
// list before it releases M, so a notify that runs anywhere after the
// waiter enqueues — whether or not M has been released yet — will still
// find and wake it.
package cond

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Mutex is the capability a Cond needs from its parameterizing lock type:
// just Lock and Unlock, satisfied by every mutex in this module plus
// *sync.Mutex.
type Mutex interface {
	Lock()
	Unlock()
}

// WaitResult reports whether a timed wait returned because it was notified
// or because its deadline passed.
type WaitResult int

const (
	// NoTimeout means the wait returned because of a notification (or, in a
	// race at the deadline, a notification that landed at essentially the
	// same instant as the timeout).
	NoTimeout WaitResult = iota
	// Timeout means the deadline passed with no notification observed.
	Timeout
)

type signal struct {
	set atomic.Bool
}

// Cond is a condition variable parameterized over mutex type M.
type Cond[M Mutex] struct {
	mu      sync.Mutex
	waiters []*signal
}

// New creates a Cond ready for use with mutexes of type M.
func New[M Mutex]() *Cond[M] {
	return &Cond[M]{}
}

func (c *Cond[M]) enqueue() *signal {
	s := &signal{}
	c.mu.Lock()
	c.waiters = append(c.waiters, s)
	c.mu.Unlock()
	return s
}

// removeLocked removes s from the waiter list if still present, reporting
// whether it did. Must be called with c.mu held.
func (c *Cond[M]) removeLocked(s *signal) bool {
	for i, w := range c.waiters {
		if w == s {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Wait atomically releases m and blocks the calling goroutine until another
// goroutine calls Notify/NotifyAll on the same Cond, then reacquires m
// before returning. Spurious wakeups are permitted by the interface but this
// implementation never produces one.
func (c *Cond[M]) Wait(m M) {
	s := c.enqueue()
	m.Unlock()
	for !s.set.Load() {
		runtime.Gosched()
	}
	m.Lock()
}

// WaitUntil behaves like Wait but gives up at deadline, returning Timeout if
// no notification arrived in time. m is reacquired before returning in
// either case.
func (c *Cond[M]) WaitUntil(m M, deadline time.Time) WaitResult {
	s := c.enqueue()
	m.Unlock()
	defer m.Lock()

	for {
		if s.set.Load() {
			return NoTimeout
		}
		if time.Now().After(deadline) {
			c.mu.Lock()
			removed := c.removeLocked(s)
			c.mu.Unlock()
			if removed {
				return Timeout
			}
			// A notifier already popped us from the list; its Store of
			// s.set happened inside the same critical section, before it
			// released c.mu, which happened-before our Lock(c.mu) above —
			// so s.set is guaranteed visible as true here.
			return NoTimeout
		}
		runtime.Gosched()
	}
}

// WaitFor is WaitUntil(m, time.Now().Add(d)).
func (c *Cond[M]) WaitFor(m M, d time.Duration) WaitResult {
	return c.WaitUntil(m, time.Now().Add(d))
}

// WaitPredicate loops Wait(m) while pred() is false. The caller must hold m
// both when calling and when pred is evaluated.
func (c *Cond[M]) WaitPredicate(m M, pred func() bool) {
	for !pred() {
		c.Wait(m)
	}
}

// NotifyOne wakes at most one waiting goroutine, in FIFO arrival order.
func (c *Cond[M]) NotifyOne() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) == 0 {
		return
	}
	w := c.waiters[0]
	c.waiters = c.waiters[1:]
	w.set.Store(true)
}

// NotifyAll wakes every currently waiting goroutine.
func (c *Cond[M]) NotifyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.waiters {
		w.set.Store(true)
	}
	c.waiters = nil
}
