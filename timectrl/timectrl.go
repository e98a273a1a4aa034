package timectrl

import (
	"sync"
	"time"
)

// FrameListener receives one frame callback: the real elapsed time since
// the previous frame in seconds, and an absolute wall-clock timestamp in
// milliseconds. This mirrors the (delta, now) pair a browser render loop
// hands its per-frame callback.
type FrameListener func(deltaSeconds float64, nowMs float64)

// FrameDriver invokes registered listeners at a fixed cadence from a
// single goroutine. Listeners run sequentially, so everything driven from
// the frame loop is single-threaded and cooperative; a slow listener
// simply stretches the next delta rather than overlapping with itself.
type FrameDriver struct {
	mu        sync.Mutex
	interval  time.Duration
	listeners []FrameListener

	stopOnce sync.Once
	stop     chan struct{}
}

// NewFrameDriver constructs a driver ticking at the given interval.
func NewFrameDriver(interval time.Duration) *FrameDriver {
	return &FrameDriver{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// AddListener registers a callback invoked on every frame. Listeners must
// be registered before Start.
func (d *FrameDriver) AddListener(fn FrameListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Start runs the frame loop in a separate goroutine for the specified
// duration; a non-positive duration runs until Stop. The returned channel
// is closed when the loop exits.
func (d *FrameDriver) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		began := time.Now()
		prev := began

		for {
			select {
			case <-d.stop:
				return
			case now := <-ticker.C:
				if duration > 0 && now.Sub(began) >= duration {
					return
				}

				delta := now.Sub(prev).Seconds()
				prev = now
				nowMs := float64(now.UnixNano()) / 1e6

				d.mu.Lock()
				listeners := append([]FrameListener{}, d.listeners...)
				d.mu.Unlock()

				for _, fn := range listeners {
					fn(delta, nowMs)
				}
			}
		}
	}()
	return done
}

// Stop terminates the frame loop. Safe to call more than once.
func (d *FrameDriver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}
