package engine

import (
	"time"

	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/scene"
)

// Tickable receives the per-frame update with elapsed seconds
type Tickable interface {
	Tick(dt float64)
}

// System is a Tickable owned by the World and run in ascending Priority order
type System interface {
	Tickable
	Name() string
	Priority() int
}

// Triggerable reacts to another volume entering its own
// Dispatch is once per entry; staying inside does not re-fire
type Triggerable interface {
	OverlapEnter(other *scene.Node)
}

// Deferrer schedules one-shot actions against game time
type Deferrer interface {
	After(delay time.Duration, fn func()) TimerID
	Cancel(id TimerID) bool
}

// Emitter pushes events for the next dispatch
type Emitter interface {
	Emit(eventType event.EventType, payload any)
}
