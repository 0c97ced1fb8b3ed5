// Package lockfreelist implements the Harris-Michael lock-free ordered set:
// a singly-linked list ordered by a 64-bit hash key, where each node's next
// pointer is an atomic.MarkablePtr so that logical deletion (marking) and
// physical unlinking are distinct, independently observable steps.
//
// Physical unlinking is best-effort: a find that fails to CAS a marked node
// out of the list simply restarts from head, and the next find to pass
// through cleans it up. Reclamation of unlinked nodes goes through a
// hazard.Domain rather than being deferred until the list itself is
// discarded.
package lockfreelist

import (
	"math"

	golampatomic "github.com/ahrav/golamp/atomic"
	"github.com/ahrav/golamp/hazard"
)

const (
	minKey uint64 = 0
	maxKey uint64 = math.MaxUint64
)

// HashFunc computes the ordering key for an item of type T.
type HashFunc[T any] func(item T) uint64

type node[T any] struct {
	key  uint64
	item T
	next golampatomic.MarkablePtr[node[T]]
}

// List is the Harris-Michael lock-free ordered set.
type List[T any] struct {
	hash   HashFunc[T]
	head   *node[T]
	domain *hazard.Domain[node[T]]
}

// New creates an empty List ordered by hash, reclaiming unlinked nodes
// through domain. A single domain may be shared across many Lists as long
// as its node type matches.
func New[T any](hash HashFunc[T], domain *hazard.Domain[node[T]]) *List[T] {
	tail := &node[T]{key: maxKey}
	tail.next.Store(nil, false)
	head := &node[T]{key: minKey}
	head.next.Store(tail, false)
	return &List[T]{hash: hash, head: head, domain: domain}
}

// NewDomain builds a hazard.Domain sized for this list's per-operation
// hazard pointer usage: find reserves at most pred and curr at once.
func NewDomain[T any]() *hazard.Domain[node[T]] {
	return hazard.NewDomain[node[T]](2)
}

// find walks from head, physically unlinking any marked node it passes
// through, until curr.key >= key. Both returned nodes are unmarked at the
// moment of inspection. ctx must be the caller's registered hazard-pointer
// thread context.
func (l *List[T]) find(ctx *hazard.ThreadContext[node[T]], key uint64) (pred, curr *node[T]) {
retry:
	for {
		pred = l.head
		curr = pred.next.Ptr()
		_ = ctx.Reserve(curr)

		for {
			succ, marked := curr.next.Load()
			if marked {
				if !pred.next.CompareAndSwapPtr(curr, succ, false) {
					ctx.Unreserve(curr)
					continue retry
				}
				ctx.ScheduleForReclaim(curr, nil)
				ctx.Unreserve(curr)
				curr = succ
				_ = ctx.Reserve(curr)
				continue
			}
			if curr.key >= key {
				return pred, curr
			}
			ctx.Unreserve(pred)
			pred = curr
			curr = succ
			_ = ctx.Reserve(curr)
		}
	}
}

// Add inserts item if its key is not already present.
func (l *List[T]) Add(ctx *hazard.ThreadContext[node[T]], item T) bool {
	ctx.OpBegin()
	defer l.domain.OpEnd(ctx)

	key := l.hash(item)
	for {
		pred, curr := l.find(ctx, key)
		if curr.key == key {
			return false
		}
		n := &node[T]{key: key, item: item}
		n.next.Store(curr, false)
		if pred.next.CompareAndSwapPtr(curr, n, false) {
			return true
		}
	}
}

// Remove logically deletes the item with the given key by marking its
// node's next pointer, then makes a best-effort attempt to physically
// unlink it. The logical deletion's success is independent of whether the
// physical unlink succeeds.
func (l *List[T]) Remove(ctx *hazard.ThreadContext[node[T]], item T) bool {
	ctx.OpBegin()
	defer l.domain.OpEnd(ctx)

	key := l.hash(item)
	for {
		pred, curr := l.find(ctx, key)
		if curr.key != key {
			return false
		}
		succ := curr.next.Ptr()
		if !curr.next.CompareAndSwap(succ, false, succ, true) {
			continue
		}
		if pred.next.CompareAndSwapPtr(curr, succ, false) {
			ctx.ScheduleForReclaim(curr, nil)
		}
		return true
	}
}

// Contains is wait-free: it walks to the first node whose key is >= the
// target and reports true only if that node's key matches and it is not
// marked for logical deletion.
func (l *List[T]) Contains(ctx *hazard.ThreadContext[node[T]], item T) bool {
	ctx.OpBegin()
	defer l.domain.OpEnd(ctx)

	key := l.hash(item)
	curr := l.head.next.Ptr()
	for curr.key < key {
		curr = curr.next.Ptr()
	}
	_, marked := curr.next.Load()
	return curr.key == key && !marked
}

// RegisterThread registers a new hazard-pointer thread context with l's
// domain. Call once per goroutine before its first operation on l.
func (l *List[T]) RegisterThread() *hazard.ThreadContext[node[T]] {
	return l.domain.RegisterThread()
}
