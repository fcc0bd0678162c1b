package ids

import (
	"sync"
	"testing"
)

func TestGenerateMonotonic(t *testing.T) {
	prev := Generate()
	for i := 0; i < 10000; i++ {
		cur := Generate()
		if cur <= prev {
			t.Fatalf("id not increasing: %d after %d", cur, prev)
		}
		prev = cur
	}
}

func TestGenerateConcurrentUnique(t *testing.T) {
	const workers = 8
	const perWorker = 2000

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, Generate())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if _, dup := seen[id]; dup {
					t.Errorf("duplicate id %d", id)
					return
				}
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()
}

func TestSetNodeIDBounds(t *testing.T) {
	SetNodeID(5)
	a := Generate()
	if (a>>12)&0x3FF != 5 {
		t.Fatalf("node bits = %d, want 5", (a>>12)&0x3FF)
	}
	SetNodeID(-1) // 越界归一到 1
	b := Generate()
	if (b>>12)&0x3FF != 1 {
		t.Fatalf("node bits after invalid set = %d, want 1", (b>>12)&0x3FF)
	}
	SetNodeID(1)
}
