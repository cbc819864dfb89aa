package toolkit

import (
	"fmt"
	"sync"
	"time"
)

// EventType identifies an event on the toolkit queue.
type EventType uint32

const (
	EventQuit        EventType = 0x100
	EventWindowClose EventType = 0x210
	EventKeyDown     EventType = 0x300
	EventKeyUp       EventType = 0x301

	// EventUser is the first type handed out by RegisterEvents.
	EventUser EventType = 0x8000
	EventLast EventType = 0xFFFF
)

// Event is one entry of the toolkit queue.
type Event struct {
	Type     EventType
	Time     time.Time
	WindowID uint32
	Key      string // key name for keyboard events
	Code     int    // user events: producer-defined value
	Data     any
}

// EventSink receives events produced by backends.
type EventSink interface {
	PushEvent(ev Event) error
}

var (
	eventNamesMu sync.RWMutex
	eventNames   = map[EventType]string{
		EventQuit:        "Quit",
		EventKeyDown:     "KeyDown",
		EventKeyUp:       "KeyUp",
		EventWindowClose: "WindowClose",
	}
)

// RegisterEventName attaches a display name to an event type for logging.
func RegisterEventName(et EventType, name string) {
	eventNamesMu.Lock()
	defer eventNamesMu.Unlock()
	eventNames[et] = name
}

func (t EventType) String() string {
	eventNamesMu.RLock()
	name, ok := eventNames[t]
	eventNamesMu.RUnlock()
	if ok {
		return name
	}
	if t >= EventUser {
		return fmt.Sprintf("User(0x%04x)", uint32(t))
	}
	return fmt.Sprintf("Event(0x%04x)", uint32(t))
}
