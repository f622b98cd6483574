package parameter

// Platform pooling and window
const (
	// PlatformPoolSize is the number of instances pre-built per platform prototype
	PlatformPoolSize = 5

	// PlatformsAhead is the number of segments kept alive beyond the opening run
	PlatformsAhead = 5

	// PassThreshold is the forward progress past a segment's start that counts as passing it
	PassThreshold = 10.0

	// SegmentLength is the run length of a straight platform along its forward axis
	SegmentLength = 20.0

	// TurnTriggerInset is how far before the exit anchor a curved segment's trigger sits
	TurnTriggerInset = 1.0

	// TurnTriggerRadius is the trigger volume radius
	TurnTriggerRadius = 2.5
)

// Turn selection weights and sequencing
const (
	WeightLeft     = 6
	WeightRight    = 4
	WeightStraight = 0

	// MaxSameTurnStreak is the longest run of one turn kind before another is forced
	MaxSameTurnStreak = 1
)

// OpeningTurns is the forced kind sequence for the first platforms of a run
var OpeningTurns = []string{"right", "right"}

// Difficulty ramp
const (
	// InitialObstacleDelay is the grace period before any obstacle may spawn, in seconds
	InitialObstacleDelay = 3.0

	// DifficultyRampInterval is the seconds between obstacle ceiling increases
	DifficultyRampInterval = 20.0

	StartObstacleCount = 1
	MaxObstacleCount   = 5
)
