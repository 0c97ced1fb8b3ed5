// Package list implements four lock-based ordered-set algorithms:
// coarse-grained, fine-grained hand-over-hand, optimistic, and lazy. All
// four expose the same Add/Remove/Contains surface over items ordered by a
// 64-bit hash key, with min/max sentinel nodes so traversal never has to
// special-case the ends of the list.
//
// Duplicate keys are treated as duplicate items: this package does not
// handle hash collisions between genuinely distinct items.
package list

import "math"

const (
	minKey uint64 = 0
	maxKey uint64 = math.MaxUint64
)

// HashFunc computes the ordering key for an item of type T.
type HashFunc[T any] func(item T) uint64
