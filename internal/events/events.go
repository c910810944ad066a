package events

import (
	"sync"
	"time"
)

// Event types published by the agenda service.
const (
	TypeAppointmentCreated = "appointment.created"
	TypeStatusChanged      = "appointment.status_changed"
	TypeOverturnCreated    = "overturn.created"
	TypeSlotBlocked        = "slot.blocked"
	TypeSlotUnblocked      = "slot.unblocked"
	TypeAbsenceCreated     = "absence.created"
	TypeHolidayChanged     = "holiday.changed"
)

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	DoctorID  int64
	Date      string
	Hour      string
	Payload   any
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub. Subscribers are invoked synchronously on
// the publisher's goroutine; the caller decides the concurrency model.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}
