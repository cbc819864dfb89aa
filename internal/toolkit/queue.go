package toolkit

import (
	"context"
	"errors"
	"sync"
)

// DefaultQueueSize bounds the number of undelivered events.
const DefaultQueueSize = 1024

// ErrQueueFull is returned by Push when the queue is at capacity.
var ErrQueueFull = errors.New("event queue is full")

// EventQueue is a bounded FIFO shared by every producer goroutine.
// Thread-Safety:
//   - Push: any goroutine
//   - Wait/Poll: intended for a single consumer (the driver)
//
// Overflow: new events are rejected, queued ones are kept.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	limit  int
	signal chan struct{} // capacity 1, non-empty while events are pending
}

// NewEventQueue creates a queue holding at most limit events.
func NewEventQueue(limit int) *EventQueue {
	if limit <= 0 {
		limit = DefaultQueueSize
	}
	return &EventQueue{
		limit:  limit,
		signal: make(chan struct{}, 1),
	}
}

// Push appends an event. O(1) amortized.
func (q *EventQueue) Push(ev Event) error {
	q.mu.Lock()
	if len(q.events) >= q.limit {
		q.mu.Unlock()
		return ErrQueueFull
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

// Poll removes and returns the oldest event without blocking.
func (q *EventQueue) Poll() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	if len(q.events) > 0 {
		select {
		case q.signal <- struct{}{}:
		default:
		}
	}
	return ev, true
}

// Wait blocks until an event is available or ctx is done.
func (q *EventQueue) Wait(ctx context.Context) (Event, error) {
	for {
		if ev, ok := q.Poll(); ok {
			return ev, nil
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
