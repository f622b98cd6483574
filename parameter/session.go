package parameter

// Session behavior
const (
	// FreezeOnGameOver stops track generation when the run ends
	FreezeOnGameOver = false

	// AutopilotLookahead is the forward distance scanned for hazards
	AutopilotLookahead = 6.0
)

// Terminal view
const (
	// ViewScale is world units per terminal cell along the track
	ViewScale = 1.0

	// ViewBehind is how many rows the runner sits above the bottom edge
	ViewBehind = 4

	HUDScoreFormat = "Score : %d"
)

// Stream hub
const (
	// StreamSendBuffer is the per-subscriber frame backlog before frames are dropped
	StreamSendBuffer = 16

	// StreamPublishEvery publishes a snapshot every N ticks
	StreamPublishEvery = 6

	StreamPath = "/stream"
)
