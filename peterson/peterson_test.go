package peterson

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockMutualExclusionTwoThreads(t *testing.T) {
	l := NewLock()
	const iterations = 20000
	counter := 0

	var wg sync.WaitGroup
	wg.Add(2)
	for id := 0; id < 2; id++ {
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

	assert.Equal(t, 2*iterations, counter)
}

func TestLockNoStarvation(t *testing.T) {
	l := NewLock()
	const iterations = 5000
	var entries [2]int
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(2)
	for id := 0; id < 2; id++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Lock(id)
				mu.Lock()
				entries[id]++
				mu.Unlock()
				l.Unlock(id)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, iterations, entries[0])
	assert.Equal(t, iterations, entries[1])
}
