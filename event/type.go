package event

// EventType represents the type of game event
type EventType int

const (
	// EventNone is the zero value and is never emitted
	EventNone EventType = iota

	// === Track Events ===

	// EventSegmentSpawned reports a platform appended to the window
	// Trigger: TrackGenerator | Payload: *SegmentPayload
	EventSegmentSpawned

	// EventSegmentRecycled reports a platform returned to its pool
	// Trigger: TrackGenerator | Payload: *SegmentPayload
	EventSegmentRecycled

	// EventDifficultyChanged reports a new obstacle ceiling or phase
	// Trigger: TrackGenerator | Payload: *DifficultyPayload
	EventDifficultyChanged

	// EventObstacleSpawningStarted fires once when the initial delay ends
	// Trigger: TrackGenerator | Payload: *DifficultyPayload
	EventObstacleSpawningStarted

	// === Runner Events ===

	// EventTurnZone fires when the runner enters a curved segment's trigger
	// Trigger: TurnTrigger overlap | Consumer: TurnController | Payload: *TurnZonePayload
	EventTurnZone

	// EventTurnComplete fires when the runner has snapped onto the new heading
	// Trigger: TurnController | Payload: *TurnZonePayload
	EventTurnComplete

	// EventJump fires when the runner leaves the ground
	// Trigger: Runner | Payload: nil
	EventJump

	// EventSlideStart fires when the runner drops into a slide
	// Trigger: Runner | Payload: nil
	EventSlideStart

	// EventSlideEnd fires when the deferred slide reset restores full height
	// Trigger: Runner deferred action | Payload: nil
	EventSlideEnd

	// EventLaneChange fires when the target lane changes
	// Trigger: Runner | Payload: *LanePayload
	EventLaneChange

	// === Item Events ===

	// EventCoinCollected fires after a coin is returned to its pool and scored
	// Trigger: CoinSpawner.Collect | Payload: *CoinPayload
	EventCoinCollected

	// EventObstacleHit fires when the runner's volume enters an obstacle
	// Trigger: Obstacle overlap | Payload: *ObstacleHitPayload
	EventObstacleHit

	// === Session Events ===

	// EventGameOver fires once per run after an obstacle hit
	// Trigger: Session | Payload: *GameOverPayload
	EventGameOver

	// EventGamePause toggles the paused state
	// Trigger: input | Payload: nil
	EventGamePause

	// EventGameRestart tears the run down and starts a fresh one
	// Trigger: input | Payload: nil
	EventGameRestart
)
