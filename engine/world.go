package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/status"
)

// World owns the frame: game clock, deferred actions, systems and event routing
// Update order per frame: clock, due deferred actions, systems by priority, event dispatch
type World struct {
	mu          sync.RWMutex
	updateMutex sync.Mutex

	systems []System

	Clock    *GameClock
	Deferred *Scheduler
	Queue    *event.EventQueue
	Router   *event.Router
	Status   *status.Registry

	logger *log.Logger
	tick   atomic.Uint64

	statTicks *atomic.Int64
	statTime  *status.AtomicFloat
}

// NewWorld creates a world with an empty system list
func NewWorld(reg *status.Registry, logger *log.Logger) *World {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	queue := event.NewEventQueue()
	return &World{
		Clock:     NewGameClock(),
		Deferred:  NewScheduler(),
		Queue:     queue,
		Router:    event.NewRouter(queue),
		Status:    reg,
		logger:    logger,
		statTicks: reg.Ints.Get("engine.ticks"),
		statTime:  reg.Floats.Get("engine.game_time"),
	}
}

// AddSystem registers a system and keeps the list sorted by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RegisterHandler adds an event handler to the router
func (w *World) RegisterHandler(handler event.Handler) {
	w.Router.Register(handler)
}

// Emit pushes an event stamped with the current tick
func (w *World) Emit(eventType event.EventType, payload any) {
	w.Queue.Push(event.GameEvent{
		Type:    eventType,
		Payload: payload,
		Tick:    w.tick.Load(),
	})
}

// After schedules fn against game time
func (w *World) After(delay time.Duration, fn func()) TimerID {
	return w.Deferred.After(delay, fn)
}

// Cancel removes a pending deferred action
func (w *World) Cancel(id TimerID) bool {
	return w.Deferred.Cancel(id)
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Update runs one frame of dt seconds under the update lock
func (w *World) Update(dt float64) {
	w.RunSafe(func() {
		w.UpdateLocked(dt)
	})
}

// UpdateLocked runs one frame assuming the caller already holds the update lock
// While paused only event dispatch runs so pause and restart requests still land
func (w *World) UpdateLocked(dt float64) {
	effective := w.Clock.Advance(dt)
	if effective > 0 {
		tick := w.tick.Add(1)
		w.statTicks.Store(int64(tick))
		w.statTime.Set(w.Clock.Now().Seconds())

		w.Deferred.Poll(w.Clock.Now())

		w.mu.RLock()
		systems := make([]System, len(w.systems))
		copy(systems, w.systems)
		w.mu.RUnlock()

		for _, system := range systems {
			system.Tick(effective)
		}
	}
	w.Router.DispatchAll()
}

// TickCount returns the number of frames that advanced game time
func (w *World) TickCount() uint64 {
	return w.tick.Load()
}

// Reset clears game time, deferred actions and pending events; systems stay registered
// Must run on the tick goroutine, either inside a frame or under RunSafe
func (w *World) Reset() {
	w.Clock.Reset()
	w.Deferred.Reset()
	w.Queue.Reset()
	w.tick.Store(0)
	w.statTicks.Store(0)
	w.statTime.Set(0)
}

// Logger returns the world's logger
func (w *World) Logger() *log.Logger {
	return w.logger
}
