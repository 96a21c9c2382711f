package soundtrack

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap passes a stream through unchanged while keeping the most recent
// frames in a ring so the tick loop can meter loudness. Stream runs on the
// speaker goroutine; Snapshot on the tick goroutine.
type Tap struct {
	Source    beep.Streamer
	ring      [][2]float64
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

// NewTap wraps src with a ring of ringSize frames.
func NewTap(src beep.Streamer, ringSize int) *Tap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &Tap{
		Source: src,
		ring:   make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.ring[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex == len(t.ring) {
				t.nextIndex = 0
			}
		}
		t.filled = min(t.filled+n, len(t.ring))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Snapshot copies up to n of the most recent frames into dst in playback
// order and returns it.
func (t *Tap) Snapshot(dst [][2]float64, n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.filled)
	dst = dst[:0]
	start := t.nextIndex - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := 0; i < n; i++ {
		dst = append(dst, t.ring[(start+i)%len(t.ring)])
	}
	return dst
}
