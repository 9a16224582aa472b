package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestNewTransactionID_Format(t *testing.T) {
	t.Parallel()

	id := NewTransactionID()
	if !strings.HasPrefix(id, "TXN") {
		t.Fatalf("missing TXN prefix: %q", id)
	}
	// TXN + 13-digit millisecond timestamp + 5-char suffix
	if len(id) != 3+13+5 {
		t.Fatalf("unexpected length %d: %q", len(id), id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("id should be uppercase: %q", id)
	}
}

func TestNewTransactionID_UniqueUnderConcurrency(t *testing.T) {
	t.Parallel()

	const workers = 16
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, NewTransactionID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if seen[id] {
					t.Errorf("duplicate transaction id: %s", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct ids, got %d", workers*perWorker, len(seen))
	}
}
