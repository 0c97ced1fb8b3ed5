package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockMutualExclusion(t *testing.T) {
	const n = 8
	const iterations = 300
	l := NewLock(n)
	counter := 0

	var wg sync.WaitGroup
	wg.Add(n)
	for id := 0; id < n; id++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Lock(id)
				counter++
				l.Unlock(id)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, n*iterations, counter)
}

// TestLockStarvationFreedom checks that every one of n goroutines completes
// its fixed quota of critical sections.
func TestLockStarvationFreedom(t *testing.T) {
	const n = 8
	const iterations = 1000
	l := NewLock(n)
	entries := make([]int, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for id := 0; id < n; id++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Lock(id)
				entries[id]++
				l.Unlock(id)
			}
		}(id)
	}
	wg.Wait()

	for id := 0; id < n; id++ {
		assert.Equal(t, iterations, entries[id], "goroutine %d starved", id)
	}
}
