// Package stress provides helpers for concurrency stress tests (this
// package's own tests use them for the MCS-under-contention scenario): fan
// out N goroutines running
// a worker function and collect the first error, using
// golang.org/x/sync/errgroup instead of hand-rolled sync.WaitGroup and
// channel plumbing.
package stress

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunGoroutines launches n goroutines, each calling work with its index in
// [0, n), and returns the first non-nil error any of them returned (if
// any). It blocks until every goroutine has returned.
func RunGoroutines(n int, work func(goroutineIndex int) error) error {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return work(i)
		})
	}
	return g.Wait()
}

// RunGoroutinesContext is RunGoroutines with a context plumbed through
// errgroup.WithContext: the first worker error cancels ctx, so the
// remaining workers can observe ctx.Err() and stop early instead of running
// their full iteration count.
func RunGoroutinesContext(ctx context.Context, n int, work func(ctx context.Context, goroutineIndex int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return work(ctx, i)
		})
	}
	return g.Wait()
}

// Counters is a set of per-goroutine counters used by fairness tests, where
// every goroutine's critical-section count must equal the same expected
// value.
type Counters struct {
	values []int
}

// NewCounters creates n zeroed per-goroutine counters.
func NewCounters(n int) *Counters {
	return &Counters{values: make([]int, n)}
}

// Increment bumps the counter for goroutineIndex. Callers are responsible
// for ensuring goroutineIndex is exclusively owned by one goroutine at a
// time — Counters adds no synchronization of its own, matching the
// teacher's fairness tests where each goroutine only ever touches its own
// slot.
func (c *Counters) Increment(goroutineIndex int) {
	c.values[goroutineIndex]++
}

// Values returns a copy of the current per-goroutine counts.
func (c *Counters) Values() []int {
	out := make([]int, len(c.values))
	copy(out, c.values)
	return out
}
