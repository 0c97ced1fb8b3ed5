// Package hazard implements Michael's hazard pointer scheme: a way for a
// goroutine to safely dereference a lock-free node that a concurrent
// remover might otherwise free out from under it, without requiring every
// reader to hold a shared lock.
//
// Go's garbage collector already guarantees that an *object* is never freed
// while any goroutine holds a live reference to it, so hazard pointers here
// are not protecting memory safety — they protect a *logical* invariant of
// the lock-free list/queue/stack built on top of them: a node that has been
// physically unlinked must not be re-observed by an operation that started
// before the unlink, because such an observation could violate
// linearizability (e.g. a find() that resumes through an unlinked, possibly
// recycled-looking node). Domain's ScheduleForReclaim + OpEnd therefore
// drives a caller-supplied cleanup callback only once no thread context
// anywhere still reserves the node.
package hazard

import (
	"errors"
	"sync/atomic"
)

// ErrNoFreeSlot is returned by Reserve when a thread context's reservation
// array is full. This is a programming error — the caller requested more
// concurrent hazard pointers per operation than the Domain was sized for —
// and is surfaced without recovery.
var ErrNoFreeSlot = errors.New("hazard: no free reservation slot")

// ThreadContext is one goroutine's hazard-pointer state: its reservation
// slots and its list of nodes awaiting reclamation. A goroutine must call
// Domain.RegisterThread once and reuse the same *ThreadContext for every
// subsequent operation.
type ThreadContext[T any] struct {
	reservations []atomic.Pointer[T]
	pending      []pendingReclaim[T]
	next         atomic.Pointer[ThreadContext[T]]
}

type pendingReclaim[T any] struct {
	ptr     *T
	cleanup func(*T)
}

// OpBegin marks the start of a hazard-pointer-protected operation. This
// implementation needs no per-op setup, so it is a no-op placeholder kept
// for symmetry with OpEnd.
func (c *ThreadContext[T]) OpBegin() {}

// Reserve publishes "I may be using p" by writing it into a free
// reservation slot with release ordering. It returns ErrNoFreeSlot if every
// slot is already in use.
func (c *ThreadContext[T]) Reserve(p *T) error {
	for i := range c.reservations {
		if c.reservations[i].CompareAndSwap(nil, p) {
			return nil
		}
	}
	return ErrNoFreeSlot
}

// Unreserve retracts a reservation made with Reserve.
func (c *ThreadContext[T]) Unreserve(p *T) {
	for i := range c.reservations {
		if c.reservations[i].Load() == p {
			c.reservations[i].Store(nil)
		}
	}
}

// ScheduleForReclaim appends p to this thread's pending-reclaim list. cleanup
// is invoked by a future OpEnd once no thread context anywhere still
// reserves p; it may be nil if the caller only needs the hazard-pointer
// protocol's ordering guarantee and has nothing else to release.
func (c *ThreadContext[T]) ScheduleForReclaim(p *T, cleanup func(*T)) {
	c.pending = append(c.pending, pendingReclaim[T]{ptr: p, cleanup: cleanup})
}

// Domain is the process-wide hazard-pointer registry for nodes of type T:
// the intrusive singly-linked list of every registered thread context.
// Thread contexts are never removed from this list — they are retained for
// the process lifetime; no teardown is required.
type Domain[T any] struct {
	numSlots int
	head     atomic.Pointer[ThreadContext[T]]
}

// NewDomain creates a hazard-pointer domain where each registered thread
// gets numSlots reservation slots — the maximum number of hazard pointers
// any single operation in this domain will hold concurrently.
func NewDomain[T any](numSlots int) *Domain[T] {
	if numSlots <= 0 {
		panic("hazard: numSlots must be positive")
	}
	return &Domain[T]{numSlots: numSlots}
}

// RegisterThread creates a ThreadContext and publishes it into the domain's
// global list via lock-free CAS head insertion. Call once per goroutine,
// before its first operation.
func (d *Domain[T]) RegisterThread() *ThreadContext[T] {
	ctx := &ThreadContext[T]{reservations: make([]atomic.Pointer[T], d.numSlots)}
	for {
		head := d.head.Load()
		ctx.next.Store(head)
		if d.head.CompareAndSwap(head, ctx) {
			return ctx
		}
	}
}

// OpEnd marks the end of a hazard-pointer-protected operation: it clears all
// of ctx's own reservations, then scans ctx's pending-reclaim list and, for
// each candidate, scans every registered thread's reservations; a candidate
// reserved by nobody is handed to its cleanup callback and dropped from the
// list, everything else is kept for the next OpEnd.
func (d *Domain[T]) OpEnd(ctx *ThreadContext[T]) {
	for i := range ctx.reservations {
		ctx.reservations[i].Store(nil)
	}

	remaining := ctx.pending[:0]
	for _, r := range ctx.pending {
		if d.isUnreserved(r.ptr) {
			if r.cleanup != nil {
				r.cleanup(r.ptr)
			}
		} else {
			remaining = append(remaining, r)
		}
	}
	ctx.pending = remaining
}

func (d *Domain[T]) isUnreserved(p *T) bool {
	for cur := d.head.Load(); cur != nil; cur = cur.next.Load() {
		for i := range cur.reservations {
			if cur.reservations[i].Load() == p {
				return false
			}
		}
	}
	return true
}
