package track

import "github.com/Mefin-SR/FlowtrixGame/config"

// Phase is the obstacle ramp state
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhaseWarming
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseWarming:
		return "warming"
	case PhaseActive:
		return "active"
	}
	return "not-started"
}

// Difficulty gates content spawning behind an initial delay and then raises the
// per-segment obstacle ceiling once per ramp interval, up to MaxObstacles
// Phases only move forward
type Difficulty struct {
	cfg     config.DifficultyConfig
	phase   Phase
	timer   float64
	ceiling int
}

// NewDifficulty starts in PhaseNotStarted at the StartObstacles ceiling
func NewDifficulty(cfg config.DifficultyConfig) *Difficulty {
	return &Difficulty{
		cfg:     cfg,
		ceiling: cfg.StartObstacles,
	}
}

// Start enters the warm-up; later calls are ignored
func (d *Difficulty) Start() {
	if d.phase == PhaseNotStarted {
		d.phase = PhaseWarming
		d.timer = 0
	}
}

// Advance adds dt seconds
// began reports the Warming to Active transition, raised reports a ceiling increase
func (d *Difficulty) Advance(dt float64) (began, raised bool) {
	switch d.phase {
	case PhaseWarming:
		d.timer += dt
		if d.timer >= d.cfg.InitialDelay {
			d.phase = PhaseActive
			d.timer = 0
			began = true
		}
	case PhaseActive:
		d.timer += dt
		if d.timer >= d.cfg.RampInterval {
			d.timer = 0
			if d.ceiling < d.cfg.MaxObstacles {
				d.ceiling++
				raised = true
			}
		}
	}
	return began, raised
}

// Spawning reports whether content may be placed
func (d *Difficulty) Spawning() bool {
	return d.phase == PhaseActive
}

// Phase returns the current phase
func (d *Difficulty) Phase() Phase {
	return d.phase
}

// Ceiling returns the current maximum obstacles per segment
func (d *Difficulty) Ceiling() int {
	return d.ceiling
}
