package notify

import "sync"

// eventQueue is a thread-safe unbounded FIFO of change events.
//
// Unbounded on purpose: a publisher must never block on a slow
// subscriber, and a burst of writes must reach the subscriber as exactly
// that many events, in order. Backpressure, if wanted, belongs to the
// publisher side.
//
// The signal channel (buffered, size 1) coalesces wakeups, not events:
// a waiter woken once drains everything that accumulated.
type eventQueue struct {
	mu     sync.Mutex
	events []ChangeEvent
	closed bool
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]ChangeEvent, 0, 8),
		signal: make(chan struct{}, 1),
	}
}

// enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) enqueue(e ChangeEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// tryDequeue removes the front event without blocking.
// Returns (ChangeEvent{}, false) if the queue is empty.
func (q *eventQueue) tryDequeue() (ChangeEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return ChangeEvent{}, false
	}

	e := q.events[0]

	// Nil out the slot so the backing array does not retain the event's
	// slices until reallocation.
	q.events[0] = ChangeEvent{}

	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// wait returns a channel that signals when events may be available.
// Use with select; after a wakeup, drain with tryDequeue.
func (q *eventQueue) wait() <-chan struct{} {
	return q.signal
}

// isClosed reports whether close was called.
func (q *eventQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// close marks the queue closed and wakes all waiters.
// Idempotent.
func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
