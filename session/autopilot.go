package session

import (
	"math"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/physics"
	"github.com/Mefin-SR/FlowtrixGame/player"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/spawn"
)

const laneMargin = 0.2

// hazard is an obstacle in the runner's local frame; lo and hi are above the track plane
type hazard struct {
	x, z float64
	lo   float64
	hi   float64
	r    float64
}

// Autopilot chooses intents that steer the runner around the obstacles just ahead
// It prefers a free neighbouring lane and falls back to jumping or sliding
type Autopilot struct {
	runner    *player.Runner
	obstacles *spawn.ObstacleSpawner
	cfg       config.PlayerConfig
	lookahead float64

	hazards []hazard
}

// NewAutopilot scans lookahead units ahead of the runner
func NewAutopilot(runner *player.Runner, obstacles *spawn.ObstacleSpawner, cfg config.PlayerConfig, lookahead float64) *Autopilot {
	if lookahead <= 0 {
		lookahead = parameter.AutopilotLookahead
	}
	return &Autopilot{
		runner:    runner,
		obstacles: obstacles,
		cfg:       cfg,
		lookahead: lookahead,
	}
}

// Decide returns the intent for the coming tick
func (a *Autopilot) Decide() player.Intent {
	a.scan()
	lane := a.runner.Lane()

	nearest, ok := a.nearestIn(lane)
	if !ok {
		return player.IntentNone
	}

	for _, side := range []int{-1, 1} {
		next := lane + side
		if next < parameter.MinLane || next > parameter.MaxLane {
			continue
		}
		if _, blocked := a.nearestIn(next); !blocked {
			if side < 0 {
				return player.IntentLeft
			}
			return player.IntentRight
		}
	}

	if !a.runner.Grounded() || a.runner.Sliding() {
		return player.IntentNone
	}
	switch {
	case nearest.lo >= a.cfg.SlideHeight:
		return player.IntentSlide
	case nearest.hi < a.cfg.JumpHeight && nearest.z <= a.jumpDistance():
		return player.IntentJump
	}
	return player.IntentNone
}

// jumpDistance puts the apex of a jump over the hazard
func (a *Autopilot) jumpDistance() float64 {
	v := physics.LaunchVelocity(a.cfg.JumpHeight, a.cfg.Gravity)
	return a.runner.Speed() * v / math.Abs(a.cfg.Gravity)
}

func (a *Autopilot) scan() {
	a.hazards = a.hazards[:0]
	body := a.runner.Node()
	a.obstacles.EachActive(func(n *scene.Node) {
		if !n.ActiveInHierarchy() {
			return
		}
		vol := a.obstacles.Volume(n)
		local := body.InverseTransformPoint(n.WorldPosition())
		reach := vol.Radius + a.cfg.Radius
		if local[2] < -reach || local[2] > a.lookahead {
			return
		}
		base := n.WorldPosition()[1]
		a.hazards = append(a.hazards, hazard{
			x:  local[0],
			z:  local[2],
			lo: base + vol.Bottom,
			hi: base + vol.Top,
			r:  vol.Radius,
		})
	})
}

// nearestIn returns the closest hazard overlapping lane
func (a *Autopilot) nearestIn(lane int) (hazard, bool) {
	center := float64(lane)*a.cfg.LaneDistance - a.runner.LaneOffset()
	var best hazard
	found := false
	for _, h := range a.hazards {
		if math.Abs(h.x-center) >= h.r+a.cfg.Radius+laneMargin {
			continue
		}
		if !found || h.z < best.z {
			best = h
			found = true
		}
	}
	return best, found
}
