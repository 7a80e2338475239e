package randq

import (
	"sync"
	"testing"
)

func TestUint64Concurrent(t *testing.T) {
	// Mainly here so -race catches unguarded access to the shared source.
	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				Uint64()
			}
		}()
	}
	wg.Wait()
}

func TestUint64Varies(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		seen[Uint64()] = true
	}
	if len(seen) < 2 {
		t.Errorf("Expected Uint64 to produce varying values, got %v", seen)
	}
}
