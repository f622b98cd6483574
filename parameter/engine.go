package parameter

import "time"

// Game Loop & Engine Timing
const (
	// GameUpdateInterval is the fixed tick interval (~60 Hz)
	GameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta clamps a single step after a stall so physics cannot tunnel
	MaxFrameDelta = 100 * time.Millisecond

	// FrameUpdateInterval is the terminal redraw interval
	FrameUpdateInterval = 33 * time.Millisecond
)

// System priorities, lower runs first
const (
	PriorityInput      = 0
	PriorityRunner     = 10
	PriorityTurn       = 20
	PriorityMotion     = 30
	PriorityCollision  = 40
	PriorityGenerator  = 50
	PriorityStatistics = 90
)

// DefaultSeed feeds every per-subsystem generator when no seed is configured
const DefaultSeed = "flowtrix"
