// Package audio synthesizes short cues for run events and plays them through the speaker
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager mixes cues into a single speaker stream
// Every method is a no-op until Initialize succeeds, so a machine without audio runs silent
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	muted       bool
	initialized bool

	// add hands a cue to the output; nil while uninitialized
	add func(s beep.Streamer)

	now      func() time.Time
	lastPlay [cueCount]time.Time
	played   [cueCount]int
}

// NewSoundManager creates a manager from the audio section of the config
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		now:     time.Now,
	}
}

// Initialize opens the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.add = func(s beep.Streamer) {
		speaker.Lock()
		sm.mixer.Add(s)
		speaker.Unlock()
	}
	sm.initialized = true
	return nil
}

// Cleanup silences everything; the speaker itself stays open
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.add = nil
	sm.initialized = false
}

// Play queues cue unless the same cue played within MinSoundGap
func (sm *SoundManager) Play(cue Cue) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if cue < 0 || cue >= cueCount || sm.add == nil || sm.muted {
		return false
	}
	now := sm.now()
	if now.Sub(sm.lastPlay[cue]) < parameter.MinSoundGap {
		return false
	}
	s := NewCue(cue, sm.volume, sampleRate)
	if s == nil {
		return false
	}
	sm.lastPlay[cue] = now
	sm.played[cue]++
	sm.add(s)
	return true
}

// ToggleMute flips muting and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	return sm.muted
}

// Played returns how many times cue was queued
func (sm *SoundManager) Played(cue Cue) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if cue < 0 || cue >= cueCount {
		return 0
	}
	return sm.played[cue]
}

// CueFor maps a run event to its sound, if any
func CueFor(t event.EventType) (Cue, bool) {
	switch t {
	case event.EventCoinCollected:
		return CueCoin, true
	case event.EventJump:
		return CueJump, true
	case event.EventSlideStart:
		return CueSlide, true
	case event.EventTurnZone:
		return CueTurn, true
	case event.EventGameOver:
		return CueCrash, true
	}
	return 0, false
}

func (sm *SoundManager) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventCoinCollected,
		event.EventJump,
		event.EventSlideStart,
		event.EventTurnZone,
		event.EventGameOver,
	}
}

// HandleEvent plays the cue for ev
func (sm *SoundManager) HandleEvent(ev event.GameEvent) {
	if cue, ok := CueFor(ev.Type); ok {
		sm.Play(cue)
	}
}
