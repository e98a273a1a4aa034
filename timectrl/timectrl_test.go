package timectrl

import (
	"sync"
	"testing"
	"time"
)

func TestFrameDriverInvokesListeners(t *testing.T) {
	d := NewFrameDriver(5 * time.Millisecond)

	var mu sync.Mutex
	var deltas []float64
	var nows []float64
	d.AddListener(func(delta, nowMs float64) {
		mu.Lock()
		deltas = append(deltas, delta)
		nows = append(nows, nowMs)
		mu.Unlock()
	})

	done := d.Start(40 * time.Millisecond)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(deltas) == 0 {
		t.Fatalf("listener never invoked")
	}
	for i, delta := range deltas {
		if delta <= 0 {
			t.Fatalf("frame %d: non-positive delta %v", i, delta)
		}
	}
	for i := 1; i < len(nows); i++ {
		if nows[i] <= nows[i-1] {
			t.Fatalf("timestamps not monotonic: %v then %v", nows[i-1], nows[i])
		}
	}
}

func TestFrameDriverStop(t *testing.T) {
	d := NewFrameDriver(2 * time.Millisecond)

	var mu sync.Mutex
	frames := 0
	d.AddListener(func(delta, nowMs float64) {
		mu.Lock()
		frames++
		mu.Unlock()
	})

	done := d.Start(0) // run until stopped
	time.Sleep(15 * time.Millisecond)
	d.Stop()
	d.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("frame loop did not exit after Stop")
	}

	mu.Lock()
	seen := frames
	mu.Unlock()
	if seen == 0 {
		t.Fatalf("no frames ran before Stop")
	}
}
