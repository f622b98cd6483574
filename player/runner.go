package player

import (
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/physics"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Runner is the player body
// The node's world position is the feet; its rotation is the heading
type Runner struct {
	cfg      config.PlayerConfig
	node     *scene.Node
	deferrer engine.Deferrer
	emitter  engine.Emitter
	logger   *log.Logger

	intent Intent

	speed      float64
	animation  float64
	speedTimer float64
	distance   float64

	lane       int
	laneOffset float64

	vertical  physics.Vertical
	height    float64
	sliding   bool
	slideTask engine.TimerID

	frozen bool

	statSpeed    *status.AtomicFloat
	statDistance *status.AtomicFloat
	statLane     *atomic.Int64
	statSliding  *atomic.Bool
}

// NewRunner places the runner at the world origin facing +Z
// emitter may be nil
func NewRunner(graph *scene.Graph, cfg config.PlayerConfig, deferrer engine.Deferrer, emitter engine.Emitter, reg *status.Registry, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	r := &Runner{
		cfg:          cfg,
		node:         graph.NewNode("runner", core.TagRunner),
		deferrer:     deferrer,
		emitter:      emitter,
		logger:       logger,
		statSpeed:    reg.Floats.Get("runner.speed"),
		statDistance: reg.Floats.Get("runner.distance"),
		statLane:     reg.Ints.Get("runner.lane"),
		statSliding:  reg.Bools.Get("runner.sliding"),
	}
	r.reset()
	return r
}

func (r *Runner) reset() {
	if r.sliding {
		r.deferrer.Cancel(r.slideTask)
	}
	r.intent = IntentNone
	r.speed = r.cfg.InitialSpeed
	r.animation = parameter.InitialAnimationSpeed
	r.speedTimer = 0
	r.distance = 0
	r.lane = 0
	r.laneOffset = 0
	r.vertical = physics.Vertical{Grounded: true}
	r.height = r.cfg.Height
	r.sliding = false
	r.frozen = false
	r.node.SetLocalPose(vmath.IdentityPose())
	r.publish()
}

func (r *Runner) Name() string {
	return "runner"
}

func (r *Runner) Priority() int {
	return parameter.PriorityRunner
}

// SetIntent queues inputs for the next tick; each intent is applied once
func (r *Runner) SetIntent(i Intent) {
	r.intent |= i
}

// Tick applies queued intents, integrates motion and ramps speed
func (r *Runner) Tick(dt float64) {
	if r.frozen || dt <= 0 {
		r.intent = IntentNone
		return
	}
	intent := r.intent
	r.intent = IntentNone

	if intent.Has(IntentJump) && r.vertical.Grounded && !r.sliding {
		r.vertical.Launch(physics.LaunchVelocity(r.cfg.JumpHeight, r.cfg.Gravity))
		r.emit(event.EventJump, nil)
	}
	if intent.Has(IntentSlide) && r.vertical.Grounded && !r.sliding {
		r.startSlide()
	}
	if intent.Has(IntentLeft) && r.lane > parameter.MinLane {
		r.changeLane(r.lane - 1)
	} else if intent.Has(IntentRight) && r.lane < parameter.MaxLane {
		r.changeLane(r.lane + 1)
	}

	r.vertical.Step(dt, r.cfg.Gravity, parameter.GroundedVelocity)

	target := float64(r.lane) * r.cfg.LaneDistance
	previous := r.laneOffset
	r.laneOffset = vmath.Lerp(r.laneOffset, target, r.cfg.LaneChangeSpeed*dt)

	pose := r.node.WorldPose()
	step := r.speed * dt
	pos := pose.Position.
		Add(pose.Forward().Mul(step)).
		Add(pose.Right().Mul(r.laneOffset - previous))
	pos[1] = r.vertical.Height
	r.node.SetLocalPosition(pos)
	r.distance += step

	r.speedTimer += dt
	if r.speedTimer >= r.cfg.SpeedInterval {
		if r.speed < r.cfg.MaxSpeed {
			r.speed = math.Min(r.speed+r.cfg.SpeedIncrease, r.cfg.MaxSpeed)
		}
		if r.animation < parameter.MaxAnimationSpeed {
			r.animation = math.Min(r.animation+parameter.AnimationSpeedStep, parameter.MaxAnimationSpeed)
		}
		r.speedTimer = 0
	}
	r.publish()
}

func (r *Runner) changeLane(to int) {
	from := r.lane
	r.lane = to
	r.emit(event.EventLaneChange, &event.LanePayload{From: from, To: to})
}

// startSlide lowers the collider and schedules its restore against game time
func (r *Runner) startSlide() {
	r.sliding = true
	r.height = r.cfg.SlideHeight
	r.emit(event.EventSlideStart, nil)
	delay := time.Duration(r.cfg.SlideSeconds * float64(time.Second))
	r.slideTask = r.deferrer.After(delay, r.endSlide)
}

func (r *Runner) endSlide() {
	if !r.sliding {
		return
	}
	r.sliding = false
	r.height = r.cfg.Height
	r.emit(event.EventSlideEnd, nil)
}

func (r *Runner) emit(t event.EventType, payload any) {
	if r.emitter != nil {
		r.emitter.Emit(t, payload)
	}
}

func (r *Runner) publish() {
	r.statSpeed.Set(r.speed)
	r.statDistance.Set(r.distance)
	r.statLane.Store(int64(r.lane))
	r.statSliding.Store(r.sliding)
}

// ResetLane recenters the runner on the line through anchor along its forward axis
// Progress along the line and height are kept
func (r *Runner) ResetLane(anchor vmath.Pose) {
	r.lane = 0
	r.laneOffset = 0

	pos := r.node.WorldPosition()
	fwd := anchor.Forward()
	along := pos.Sub(anchor.Position).Dot(fwd)
	centered := anchor.Position.Add(fwd.Mul(along))
	centered[1] = pos[1]
	r.node.SetLocalPosition(centered)
	r.publish()
}

// Freeze stops all motion; pending deferred actions still run
func (r *Runner) Freeze() {
	r.frozen = true
}

// Frozen reports whether the runner stopped
func (r *Runner) Frozen() bool {
	return r.frozen
}

// Node returns the runner's scene node
func (r *Runner) Node() *scene.Node {
	return r.node
}

// Position returns the world position of the feet
func (r *Runner) Position() mgl64.Vec3 {
	return r.node.WorldPosition()
}

// Heading returns the world rotation
func (r *Runner) Heading() mgl64.Quat {
	return r.node.WorldPose().Rotation
}

// SetHeading replaces the world rotation
func (r *Runner) SetHeading(q mgl64.Quat) {
	r.node.SetLocalRotation(q)
}

// Volume is the current collider: an upright cylinder from the feet up to the body height
func (r *Runner) Volume() physics.Volume {
	return physics.Volume{Radius: r.cfg.Radius, Bottom: 0, Top: r.height}
}

// Speed returns the forward speed in units per second
func (r *Runner) Speed() float64 {
	return r.speed
}

// AnimationSpeed returns the playback rate multiplier for run animations
func (r *Runner) AnimationSpeed() float64 {
	return r.animation
}

// Distance returns the total distance run
func (r *Runner) Distance() float64 {
	return r.distance
}

// Lane returns the target lane
func (r *Runner) Lane() int {
	return r.lane
}

// LaneOffset returns the eased lateral offset from the lane origin
func (r *Runner) LaneOffset() float64 {
	return r.laneOffset
}

func (r *Runner) Sliding() bool {
	return r.sliding
}

func (r *Runner) Grounded() bool {
	return r.vertical.Grounded
}

// Height returns the feet height above the track plane
func (r *Runner) Height() float64 {
	return r.vertical.Height
}
