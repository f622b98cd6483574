package event

// Handler processes specific event types
type Handler interface {
	// HandleEvent processes a single event during dispatch
	HandleEvent(ev GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc struct {
	Types []EventType
	Fn    func(ev GameEvent)
}

func (h HandlerFunc) HandleEvent(ev GameEvent) {
	h.Fn(ev)
}

func (h HandlerFunc) EventTypes() []EventType {
	return h.Types
}

// Router dispatches queued events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch, called from the tick loop only
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
//   - Events pushed during dispatch are delivered in the same call
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes pending events and routes them to handlers in FIFO order
// Cascades are bounded so a handler that re-emits its own type cannot spin forever
func (r *Router) DispatchAll() int {
	dispatched := 0
	for round := 0; round < maxCascade; round++ {
		events := r.queue.Consume()
		if len(events) == 0 {
			break
		}
		for _, ev := range events {
			for _, h := range r.handlers[ev.Type] {
				h.HandleEvent(ev)
			}
			dispatched++
		}
	}
	return dispatched
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}

const maxCascade = 8
