package lockfreequeue

import (
	"sync/atomic"

	golampatomic "github.com/ahrav/golamp/atomic"
)

type recycleNode[T any] struct {
	value T
	next  golampatomic.StampedPtr[recycleNode[T]]
}

// pool is a lock-free Treiber-style stack of freed nodes, grounded the same
// way the stack package's LockFreeStack is: atomic.Pointer top, CAS push
// and pop.
type pool[T any] struct {
	top atomic.Pointer[recycleNode[T]]
}

func (p *pool[T]) get() *recycleNode[T] {
	for {
		top := p.top.Load()
		if top == nil {
			return &recycleNode[T]{}
		}
		next := top.next.Ptr()
		if p.top.CompareAndSwap(top, next) {
			var zero T
			top.value = zero
			top.next.Store(nil, 0)
			return top
		}
	}
}

func (p *pool[T]) put(n *recycleNode[T]) {
	for {
		top := p.top.Load()
		n.next.Store(top, 0)
		if p.top.CompareAndSwap(top, n) {
			return
		}
	}
}

// LockFreeQueueRecycle is the Michael-Scott queue with a node pool: freed
// nodes are returned to the pool and reused rather than left for the
// garbage collector. Because an address can now be handed out again, head
// and tail are held as atomic.StampedPtr rather than a plain atomic
// pointer — the stamp increments on every successful update, so a CAS
// built from a stale (pointer, stamp) observation fails even if the
// pointer value alone was recycled back to the same address.
type LockFreeQueueRecycle[T any] struct {
	head golampatomic.StampedPtr[recycleNode[T]]
	tail golampatomic.StampedPtr[recycleNode[T]]
	pool pool[T]
}

// NewRecycle creates an empty LockFreeQueueRecycle.
func NewRecycle[T any]() *LockFreeQueueRecycle[T] {
	dummy := &recycleNode[T]{}
	dummy.next.Store(nil, 0)
	q := &LockFreeQueueRecycle[T]{}
	q.head.Store(dummy, 0)
	q.tail.Store(dummy, 0)
	return q
}

// Enqueue appends value to the tail.
func (q *LockFreeQueueRecycle[T]) Enqueue(value T) {
	n := q.pool.get()
	n.value = value
	n.next.Store(nil, 0)

	for {
		tail, tailStamp := q.tail.Load()
		next, nextStamp := tail.next.Load()
		tailNow, tailStampNow := q.tail.Load()
		if tail != tailNow || tailStamp != tailStampNow {
			continue
		}
		if next == nil {
			if tail.next.CompareAndSwap(nil, nextStamp, n, nextStamp+1) {
				q.tail.CompareAndSwap(tail, tailStamp, n, tailStamp+1)
				return
			}
		} else {
			q.tail.CompareAndSwap(tail, tailStamp, next, tailStamp+1)
		}
	}
}

// Dequeue removes and returns the head value, or ErrEmpty if the queue is
// empty. The popped node is returned to the pool rather than left for the
// garbage collector.
func (q *LockFreeQueueRecycle[T]) Dequeue() (T, error) {
	for {
		head, headStamp := q.head.Load()
		tail, tailStamp := q.tail.Load()
		next, _ := head.next.Load()
		headNow, headStampNow := q.head.Load()
		if head != headNow || headStamp != headStampNow {
			continue
		}
		if head == tail {
			if next == nil {
				var zero T
				return zero, ErrEmpty
			}
			q.tail.CompareAndSwap(tail, tailStamp, next, tailStamp+1)
			continue
		}
		value := next.value
		if q.head.CompareAndSwap(head, headStamp, next, headStamp+1) {
			q.pool.put(head)
			return value, nil
		}
	}
}
