package common

import (
	"sync"
	"testing"
)

func TestIDGenerator_RejectsOutOfRangeNode(t *testing.T) {
	if _, err := NewIDGenerator(1024); err == nil {
		t.Error("Expected error for node 1024")
	}
	if _, err := NewIDGenerator(-1); err == nil {
		t.Error("Expected error for negative node")
	}
}

func TestIDGenerator_UniqueAcrossGoroutines(t *testing.T) {
	gen, err := NewIDGenerator(7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	const workers = 8
	const perWorker = 2000

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, gen.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("Duplicate id %d", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d ids, got %d", workers*perWorker, len(seen))
	}
}

func TestIDGenerator_IncreasingAndTaggedWithNode(t *testing.T) {
	gen, err := NewIDGenerator(42)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	prev := gen.Next()
	for i := 0; i < 5000; i++ {
		next := gen.Next()
		if next <= prev {
			t.Fatalf("Expected increasing ids, got %d after %d", next, prev)
		}
		prev = next
	}

	if node := NodeOf(prev); node != 42 {
		t.Errorf("Expected node 42 encoded in id, got %d", node)
	}
}
