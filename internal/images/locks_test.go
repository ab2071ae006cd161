package images

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNameLocksSerializeSameName(t *testing.T) {
	locks := newNameLocks()
	var inside atomic.Int32
	var maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock("foo.png")
			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()

	if maxInside.Load() != 1 {
		t.Fatalf("expected one holder at a time, saw %d", maxInside.Load())
	}
	if locks.size() != 0 {
		t.Fatalf("expected lock table to drain, got %d entries", locks.size())
	}
}

func TestNameLocksIndependentNames(t *testing.T) {
	locks := newNameLocks()
	releaseA := locks.Lock("a.png")
	done := make(chan struct{})
	go func() {
		release := locks.Lock("b.png")
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on b.png blocked behind a.png")
	}
	releaseA()
}
