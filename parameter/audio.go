package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinSoundGap between consecutive cues of the same kind
	MinSoundGap = 50 * time.Millisecond

	AudioVolume = 0.6
)

// Cue lengths
const (
	CoinCueNote1     = 80 * time.Millisecond
	CoinCueNote2     = 180 * time.Millisecond
	JumpCueDuration  = 150 * time.Millisecond
	SlideCueDuration = 250 * time.Millisecond
	TurnCueDuration  = 200 * time.Millisecond
	CrashCueDuration = 600 * time.Millisecond
)
