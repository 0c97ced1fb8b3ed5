package list

import (
	"sync/atomic"

	"github.com/ahrav/golamp/ttas"
)

type lazyNode[T any] struct {
	key    uint64
	item   T
	next   atomic.Pointer[lazyNode[T]]
	marked atomic.Bool
	mu     ttas.Lock
}

// Lazy is the lazy-synchronization ordered set: traversal is unlocked, and
// validation is O(1) — pred unmarked, curr unmarked, pred.next == curr —
// instead of optimistic.go's O(n) re-walk from head. Removal logically
// deletes (sets marked) before physically unlinking, which is what makes
// Contains wait-free: it never has to lock anything, only check the marked
// flag of the node it lands on.
//
// As in optimistic.go, next is an atomic.Pointer rather than a plain pointer
// since it is read during an unlocked traversal while concurrently written
// under lock.
type Lazy[T any] struct {
	hash HashFunc[T]
	head *lazyNode[T]
}

// NewLazy creates an empty Lazy set ordered by hash.
func NewLazy[T any](hash HashFunc[T]) *Lazy[T] {
	tail := &lazyNode[T]{key: maxKey}
	head := &lazyNode[T]{key: minKey}
	head.next.Store(tail)
	return &Lazy[T]{hash: hash, head: head}
}

func (l *Lazy[T]) validate(pred, curr *lazyNode[T]) bool {
	return !pred.marked.Load() && !curr.marked.Load() && pred.next.Load() == curr
}

// search returns with both pred and curr locked; callers must unlock both.
func (l *Lazy[T]) search(key uint64) (pred, curr *lazyNode[T]) {
	for {
		pred = l.head
		curr = pred.next.Load()
		for curr.key < key {
			pred = curr
			curr = curr.next.Load()
		}

		pred.mu.Lock()
		curr.mu.Lock()
		if l.validate(pred, curr) {
			return pred, curr
		}
		pred.mu.Unlock()
		curr.mu.Unlock()
	}
}

// Add inserts item if its key is not already present.
func (l *Lazy[T]) Add(item T) bool {
	key := l.hash(item)
	pred, curr := l.search(key)
	defer pred.mu.Unlock()
	defer curr.mu.Unlock()

	if curr.key == key {
		return false
	}
	node := &lazyNode[T]{key: key, item: item}
	node.next.Store(curr)
	pred.next.Store(node)
	return true
}

// Remove logically deletes the item with the given key (marking it) before
// physically unlinking it.
func (l *Lazy[T]) Remove(item T) bool {
	key := l.hash(item)
	pred, curr := l.search(key)
	defer pred.mu.Unlock()
	defer curr.mu.Unlock()

	if curr.key != key {
		return false
	}
	curr.marked.Store(true)
	pred.next.Store(curr.next.Load())
	return true
}

// Contains is wait-free: it walks to the first node whose key is >= the
// target, taking no locks, and reports true only if that node's key matches
// and it has not been logically deleted.
func (l *Lazy[T]) Contains(item T) bool {
	key := l.hash(item)
	curr := l.head.next.Load()
	for curr.key < key {
		curr = curr.next.Load()
	}
	return curr.key == key && !curr.marked.Load()
}
