package lifecycle

import "time"

// FrameFunc receives the host frame timestamp.
type FrameFunc func(now time.Duration)

// FrameID identifies a pending request. The zero ID is never issued.
type FrameID uint64

// Scheduler is the host's per-frame callback primitive.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type request struct {
	id FrameID
	fn FrameFunc
}

// FrameQueue is a Scheduler fired explicitly by a backend once per host
// frame. Callbacks requested while firing run on the next Fire.
type FrameQueue struct {
	next    FrameID
	pending []request
	running []request
}

// RequestFrame queues fn for the next Fire.
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameID {
	q.next++
	q.pending = append(q.pending, request{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a pending request. Unknown IDs are ignored.
func (q *FrameQueue) CancelFrame(id FrameID) {
	if id == 0 {
		return
	}
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	// cancelled from inside a callback of the current Fire
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].fn = nil
			return
		}
	}
}

// Pending is the number of queued callbacks.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// Fire runs every callback queued before this call.
func (q *FrameQueue) Fire(now time.Duration) {
	q.running, q.pending = q.pending, q.running[:0]
	for i := range q.running {
		if fn := q.running[i].fn; fn != nil {
			q.running[i].fn = nil
			fn(now)
		}
	}
	q.running = q.running[:0]
}
