package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// TurnController steers the runner onto the heading of a curved segment's exit
type TurnController struct {
	runner  *Runner
	emitter engine.Emitter
	speed   float64
	snap    float64

	turning bool
	target  mgl64.Quat
	zone    event.TurnZonePayload
}

// NewTurnController rotates at cfg.TurnSpeed*100 degrees per second
func NewTurnController(runner *Runner, cfg config.PlayerConfig, emitter engine.Emitter) *TurnController {
	return &TurnController{
		runner:  runner,
		emitter: emitter,
		speed:   cfg.TurnSpeed * 100,
		snap:    cfg.TurnSnapAngle,
	}
}

func (t *TurnController) Name() string {
	return "turn"
}

func (t *TurnController) Priority() int {
	return parameter.PriorityTurn
}

func (t *TurnController) EventTypes() []event.EventType {
	return []event.EventType{event.EventTurnZone}
}

// HandleEvent starts a turn toward the zone's exit heading, replacing any turn in progress
func (t *TurnController) HandleEvent(ev event.GameEvent) {
	zone, ok := ev.Payload.(*event.TurnZonePayload)
	if !ok {
		return
	}
	t.Begin(*zone)
}

// Begin starts turning toward zone
func (t *TurnController) Begin(zone event.TurnZonePayload) {
	t.zone = zone
	t.target = vmath.Yaw(zone.Yaw)
	t.turning = true
}

// Tick rotates toward the target and completes once within the snap angle
func (t *TurnController) Tick(dt float64) {
	if !t.turning || t.runner.Frozen() {
		return
	}
	heading := vmath.RotateTowards(t.runner.Heading(), t.target, t.speed*dt)
	if vmath.Angle(heading, t.target) < t.snap {
		heading = t.target
	}
	t.runner.SetHeading(heading)
	if heading != t.target {
		return
	}

	t.turning = false
	t.runner.ResetLane(vmath.Pose{Position: t.zone.Anchor, Rotation: t.target})
	if t.emitter != nil {
		done := t.zone
		t.emitter.Emit(event.EventTurnComplete, &done)
	}
}

// Turning reports whether a turn is in progress
func (t *TurnController) Turning() bool {
	return t.turning
}

// Cancel drops the turn in progress
func (t *TurnController) Cancel() {
	t.turning = false
}
