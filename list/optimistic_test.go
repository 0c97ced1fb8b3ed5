package list

import (
	"sync"
	stdatomic "sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimisticAddRemoveContains(t *testing.T) {
	l := NewOptimistic[int](identityHash)

	require.True(t, l.Add(5))
	require.False(t, l.Add(5))
	assert.True(t, l.Contains(5))
	assert.False(t, l.Contains(6))

	require.True(t, l.Remove(5))
	assert.False(t, l.Contains(5))
	require.False(t, l.Remove(5))
}

func TestOptimisticOrdersByKey(t *testing.T) {
	l := NewOptimistic[int](identityHash)
	for _, v := range []int{5, 1, 3, 2, 4} {
		require.True(t, l.Add(v))
	}
	for v := 1; v <= 5; v++ {
		assert.True(t, l.Contains(v))
	}
}

// TestOptimisticConcurrentLinearizability pre-populates with even keys in
// [0,100), runs mixed add/remove across several goroutines, and checks the
// final contents land within 1 of the count the successful operations
// imply.
func TestOptimisticConcurrentLinearizability(t *testing.T) {
	const (
		goroutines = 4
		ops        = 1000
		universe   = 100
	)
	l := NewOptimistic[int](identityHash)
	for i := 0; i < universe; i += 2 {
		require.True(t, l.Add(i))
	}
	initial := universe / 2

	var adds, removes stdatomic.Int64
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(seed int) {
			defer wg.Done()
			rng := seed
			for i := 0; i < ops; i++ {
				rng = rng*1103515245 + 12345
				key := int(uint(rng>>8) % universe)
				if key%2 == 0 {
					if l.Remove(key) {
						removes.Add(1)
					}
				} else {
					if l.Add(key) {
						adds.Add(1)
					}
				}
			}
		}(g + 1)
	}
	wg.Wait()

	count := 0
	for i := 0; i < universe; i++ {
		if l.Contains(i) {
			count++
		}
	}
	expected := initial + int(adds.Load()) - int(removes.Load())
	assert.InDelta(t, expected, count, 1)
}
