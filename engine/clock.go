package engine

import (
	"sync/atomic"
	"time"
)

// GameClock accumulates game time from tick deltas
// Pausing freezes game time; the tick loop keeps running so input stays live
type GameClock struct {
	elapsed  atomic.Int64 // game time in nanoseconds
	isPaused atomic.Bool

	// Total real-time ticks swallowed while paused
	pausedTime atomic.Int64
}

// NewGameClock creates a clock at game time zero
func NewGameClock() *GameClock {
	return &GameClock{}
}

// Advance adds dt seconds of game time and returns the effective delta
// Returns 0 while paused
func (c *GameClock) Advance(dt float64) float64 {
	d := time.Duration(dt * float64(time.Second))
	if c.isPaused.Load() {
		c.pausedTime.Add(int64(d))
		return 0
	}
	c.elapsed.Add(int64(d))
	return dt
}

// Now returns current game time since the run started
func (c *GameClock) Now() time.Duration {
	return time.Duration(c.elapsed.Load())
}

// Pause stops game time advancement
func (c *GameClock) Pause() {
	c.isPaused.Store(true)
}

// Resume continues game time advancement
func (c *GameClock) Resume() {
	c.isPaused.Store(false)
}

// IsPaused returns current pause state
func (c *GameClock) IsPaused() bool {
	return c.isPaused.Load()
}

// TotalPauseDuration returns cumulative time spent paused
func (c *GameClock) TotalPauseDuration() time.Duration {
	return time.Duration(c.pausedTime.Load())
}

// Reset rewinds to game time zero and clears the pause state
func (c *GameClock) Reset() {
	c.elapsed.Store(0)
	c.pausedTime.Store(0)
	c.isPaused.Store(false)
}
