package lifecycle

import "time"

// Pacer caps the processed tick rate. The reference timestamp advances by
// exactly one interval per processed tick so the long-run cadence matches
// the cap, and resynchronises to now after a stall.
type Pacer struct {
	interval time.Duration
	stall    time.Duration
	last     time.Duration
	started  bool
}

// NewPacer paces at interval; gaps longer than stallFactor intervals resync.
func NewPacer(interval time.Duration, stallFactor int) *Pacer {
	if stallFactor < 1 {
		stallFactor = 1
	}
	return &Pacer{interval: interval, stall: interval * time.Duration(stallFactor)}
}

// Ready reports whether the frame at now should be processed.
func (p *Pacer) Ready(now time.Duration) bool {
	if !p.started {
		p.started = true
		p.last = now
		return true
	}
	gap := now - p.last
	if gap < p.interval {
		return false
	}
	if gap > p.stall {
		p.last = now
	} else {
		p.last += p.interval
	}
	return true
}

// Reset forgets the reference so the next frame is processed immediately.
func (p *Pacer) Reset() { p.started = false }

// Interval is the target time between processed ticks.
func (p *Pacer) Interval() time.Duration { return p.interval }
