package toolkit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue(4)
	for i := 0; i < 4; i++ {
		if err := q.Push(Event{Type: EventUser, Code: i}); err != nil {
			t.Fatalf("Push(%d) = %v", i, err)
		}
	}
	if err := q.Push(Event{}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Push on full queue = %v, want ErrQueueFull", err)
	}
	for i := 0; i < 4; i++ {
		ev, ok := q.Poll()
		if !ok || ev.Code != i {
			t.Fatalf("Poll() = (%+v, %v), want code %d", ev, ok, i)
		}
	}
	if _, ok := q.Poll(); ok {
		t.Error("Poll() on empty queue returned an event")
	}
}

// TestQueueConcurrentProducers checks that every pushed event is delivered
// exactly once to a single waiting consumer.
func TestQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 100
	q := NewEventQueue(producers * perProducer)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Push(Event{Code: p*perProducer + i}); err != nil {
					t.Errorf("Push() = %v", err)
				}
			}
		}(p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	seen := make(map[int]bool, producers*perProducer)
	for len(seen) < producers*perProducer {
		ev, err := q.Wait(ctx)
		if err != nil {
			t.Fatalf("Wait() = %v after %d events", err, len(seen))
		}
		if seen[ev.Code] {
			t.Fatalf("event %d delivered twice", ev.Code)
		}
		seen[ev.Code] = true
	}
	wg.Wait()
	if q.Len() != 0 {
		t.Errorf("Len() = %d after draining", q.Len())
	}
}

func TestQueueDefaultLimit(t *testing.T) {
	q := NewEventQueue(0)
	if q.limit != DefaultQueueSize {
		t.Errorf("limit = %d, want %d", q.limit, DefaultQueueSize)
	}
}
