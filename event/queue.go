package event

import "sync"

// GameEvent is a single routed event
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    uint64
}

// EventQueue buffers events until the next dispatch
// Producers may run on other goroutines (input, stream); the tick loop is the single consumer
type EventQueue struct {
	mu      sync.Mutex
	pending []GameEvent
	spare   []GameEvent
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		pending: make([]GameEvent, 0, 32),
		spare:   make([]GameEvent, 0, 32),
	}
}

// Push appends event in FIFO order
func (eq *EventQueue) Push(event GameEvent) {
	eq.mu.Lock()
	eq.pending = append(eq.pending, event)
	eq.mu.Unlock()
}

// Consume returns all pending events in FIFO order
// The returned slice is only valid until the next Consume
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if len(eq.pending) == 0 {
		return nil
	}
	out := eq.pending
	clear(eq.spare)
	eq.pending = eq.spare[:0]
	eq.spare = out
	return out
}

// Len returns the number of pending events
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.pending)
}

// Reset drops all pending events
func (eq *EventQueue) Reset() {
	eq.mu.Lock()
	clear(eq.pending)
	eq.pending = eq.pending[:0]
	eq.mu.Unlock()
}
