package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened.
type Type string

const (
	Connected    Type = "connected"
	Disconnected Type = "disconnected"
	HealthCheck  Type = "health_check"
	Error        Type = "error"
	RequestError Type = "request_error"
)

// Event is a single notification delivered to observers.
type Event struct {
	ID       string
	Type     Type
	Time     time.Time
	Payload  json.RawMessage // vendor response body, when there is one
	Err      error
	Method   string // set on request_error
	Endpoint string // set on request_error
}

// Observer receives events. Notify is called synchronously from the
// emitting goroutine, so implementations must not block for long.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// Bus fans events out to every subscribed observer.
type Bus struct {
	mu        sync.RWMutex
	next      int
	observers map[int]Observer
	now       func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		observers: make(map[int]Observer),
		now:       time.Now,
	}
}

// Subscribe registers o and returns a func that removes it again.
func (b *Bus) Subscribe(o Observer) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.observers[id] = o
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.observers, id)
			b.mu.Unlock()
		})
	}
}

// Len returns the number of subscribed observers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Publish stamps e with an id and time when missing and delivers it.
// A panicking observer does not prevent delivery to the others.
func (b *Bus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = b.now()
	}

	b.mu.RLock()
	targets := make([]Observer, 0, len(b.observers))
	for _, o := range b.observers {
		targets = append(targets, o)
	}
	b.mu.RUnlock()

	for _, o := range targets {
		deliver(o, e)
	}
}

// Emit is a shorthand for Publish with only a type, payload and error.
func (b *Bus) Emit(t Type, payload json.RawMessage, err error) {
	b.Publish(Event{Type: t, Payload: payload, Err: err})
}

func deliver(o Observer, e Event) {
	defer func() { _ = recover() }()
	o.Notify(e)
}
