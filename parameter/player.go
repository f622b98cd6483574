package parameter

import "time"

// Runner locomotion
const (
	InitialRunSpeed = 8.0
	MaxRunSpeed     = 15.0

	// SpeedIncrease is added every SpeedIncreaseInterval seconds
	SpeedIncrease         = 0.1
	SpeedIncreaseInterval = 30.0

	InitialAnimationSpeed = 1.0
	AnimationSpeedStep    = 0.05
	MaxAnimationSpeed     = 2.0

	// LaneDistance separates the three lanes -1, 0, 1
	LaneDistance = 2.0
	MinLane      = -1
	MaxLane      = 1

	// LaneChangeSpeed is the lateral lerp rate toward the target lane
	LaneChangeSpeed = 20.0
)

// Runner vertical motion
const (
	JumpHeight = 1.0
	Gravity    = -9.81

	// GroundedVelocity holds the runner on the ground between jumps
	GroundedVelocity = -0.5

	RunnerHeight = 1.8
	SlideHeight  = 0.6
	RunnerRadius = 0.4

	// SlideDuration is how long a slide lasts before the deferred reset
	SlideDuration = 1500 * time.Millisecond
)

// Turning
const (
	// TurnSpeed scales the turn rotation rate, applied as TurnSpeed*100 degrees per second
	TurnSpeed = 5.0

	// TurnSnapAngle snaps the final heading once within this many degrees
	TurnSnapAngle = 0.5
)

// Obstacle collision volumes
const (
	// BarrierTop is low enough to clear with a jump
	BarrierTop = 0.8

	// BeamBottom is high enough to pass under while sliding
	BeamBottom = 1.0
	BeamTop    = 2.5

	BlockTop = 2.5

	ObstacleRadius = 0.8
)
