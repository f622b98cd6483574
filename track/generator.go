// Package track streams platform segments ahead of the runner and recycles them behind
package track

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/physics"
	"github.com/Mefin-SR/FlowtrixGame/pool"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/spawn"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// ErrMissingEndAnchor is returned when a platform instance has no EndPoint child
var ErrMissingEndAnchor = errors.New("track: platform is missing its end anchor")

// PoseSource reports the runner's world position each tick
type PoseSource interface {
	Position() mgl64.Vec3
}

// ObstaclePlacer is the obstacle side of content population
type ObstaclePlacer interface {
	Place(site spawn.Site, occ *spawn.Occupancy) bool
	ReturnAll(container *scene.Node) int
}

// CoinPlacer is the coin side of content population
type CoinPlacer interface {
	Populate(site spawn.Site, occ *spawn.Occupancy) int
	ReturnAll(container *scene.Node) int
}

// Deps are the collaborators a Generator is wired with
type Deps struct {
	Graph     *scene.Graph
	Player    PoseSource
	Obstacles ObstaclePlacer
	Coins     CoinPlacer
	Rand      Rand

	// Emitter and Status may be nil
	Emitter engine.Emitter
	Status  *status.Registry
	Logger  *log.Logger
}

// Generator keeps a bounded window of segments around the runner
// It is the only owner of the segment list, the platform pools and the generation cursor
type Generator struct {
	cfg        config.TrackConfig
	deps       Deps
	logger     *log.Logger
	prototypes map[core.TurnKind]Prototype
	byID       map[string]Prototype

	pool    *pool.Pool[*scene.Node]
	holding *scene.Node
	scope   *scene.Node

	sequencer  *TurnSequencer
	difficulty *Difficulty

	// segments[i] has absolute index base+i; recycled entries are nil until trimmed
	segments    []*Segment
	base        int
	playerIndex int
	cursor      vmath.Pose

	started bool
	halted  bool

	statIndex    *atomic.Int64
	statActive   *atomic.Int64
	statSpawned  *atomic.Int64
	statRecycled *atomic.Int64
	statFailed   *atomic.Int64
	statCeiling  *atomic.Int64
	statPhase    *status.AtomicString
}

// NewGenerator registers the platform pools
// Every kind that can be drawn or forced must have a prototype
func NewGenerator(cfg config.TrackConfig, difficulty config.DifficultyConfig, prototypes []Prototype, deps Deps) (*Generator, error) {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Status == nil {
		deps.Status = status.NewRegistry()
	}
	g := &Generator{
		cfg:          cfg,
		deps:         deps,
		logger:       deps.Logger,
		prototypes:   make(map[core.TurnKind]Prototype, len(prototypes)),
		byID:         make(map[string]Prototype, len(prototypes)),
		holding:      deps.Graph.NewScope("platform-pool"),
		scope:        deps.Graph.NewScope("track"),
		sequencer:    NewTurnSequencer(cfg.Weights, cfg.MaxSameTurnStreak, deps.Rand),
		difficulty:   NewDifficulty(difficulty),
		cursor:       vmath.IdentityPose(),
		statIndex:    deps.Status.Ints.Get("track.segment_index"),
		statActive:   deps.Status.Ints.Get("track.active_segments"),
		statSpawned:  deps.Status.Ints.Get("track.spawned"),
		statRecycled: deps.Status.Ints.Get("track.recycled"),
		statFailed:   deps.Status.Ints.Get("track.failed_spawns"),
		statCeiling:  deps.Status.Ints.Get("difficulty.ceiling"),
		statPhase:    deps.Status.Strings.Get("difficulty.phase"),
	}
	g.holding.SetActive(false)

	for _, p := range prototypes {
		g.prototypes[p.Kind] = p
		g.byID[p.ID] = p
	}
	for _, k := range core.TurnKinds {
		if _, ok := g.prototypes[k]; !ok && cfg.Weights.Of(k) > 0 {
			return nil, fmt.Errorf("track: no prototype for weighted kind %s", k)
		}
	}
	for _, k := range cfg.OpeningTurns {
		if _, ok := g.prototypes[k]; !ok {
			return nil, fmt.Errorf("track: no prototype for opening kind %s", k)
		}
	}

	serial := 0
	g.pool = pool.New(pool.Hooks[*scene.Node]{
		New: func(id string) *scene.Node {
			serial++
			return g.byID[id].build(deps.Graph, g.holding, serial)
		},
		Park: func(n *scene.Node) {
			n.SetParent(g.holding, false)
		},
		Destroy: func(n *scene.Node) {
			n.Destroy()
		},
	}, deps.Logger)
	for _, p := range prototypes {
		g.pool.Register(p.ID, cfg.PlatformPoolSize)
	}

	g.statCeiling.Store(int64(g.difficulty.Ceiling()))
	g.statPhase.Store(g.difficulty.Phase().String())
	return g, nil
}

// Start lays the opening window: forced kinds first, weighted draws after
// No content is placed until the difficulty warm-up ends
func (g *Generator) Start() {
	if g.started {
		return
	}
	g.started = true
	g.difficulty.Start()
	g.statPhase.Store(g.difficulty.Phase().String())

	for i := 0; i < g.cfg.PlatformsAhead; i++ {
		var forced *core.TurnKind
		if i < len(g.cfg.OpeningTurns) {
			forced = &g.cfg.OpeningTurns[i]
		}
		if _, err := g.spawnNext(forced); err != nil {
			g.logger.Printf("track: opening segment %d: %v", i, err)
		}
	}
}

func (g *Generator) Name() string {
	return "track"
}

func (g *Generator) Priority() int {
	return parameter.PriorityGenerator
}

// Tick runs one window maintenance step; errors are logged and the run degrades
func (g *Generator) Tick(dt float64) {
	if _, err := g.Update(dt); err != nil {
		g.logger.Printf("track: %v", err)
	}
}

// Update advances the window, then difficulty, then tops up content near the runner
// Within one call a trailing segment is recycled before the new one is spawned, and
// a segment is placed before it is populated
func (g *Generator) Update(dt float64) (advanced bool, err error) {
	if !g.started || g.halted {
		return false, nil
	}
	if g.playerIndex >= g.base+len(g.segments) {
		return false, nil
	}

	current := g.at(g.playerIndex)
	if current != nil && current.Progress(g.deps.Player.Position()) > g.cfg.PassThreshold {
		advanced = true
		g.playerIndex++
		g.statIndex.Store(int64(g.playerIndex))

		if behind := g.at(g.playerIndex - 2); behind != nil {
			g.recycle(behind)
		}

		seg, spawnErr := g.spawnNext(nil)
		if spawnErr != nil {
			err = spawnErr
		} else if g.difficulty.Spawning() {
			g.populate(seg)
		}
	}

	began, raised := g.difficulty.Advance(dt)
	if began || raised {
		g.statCeiling.Store(int64(g.difficulty.Ceiling()))
		g.statPhase.Store(g.difficulty.Phase().String())
		payload := &event.DifficultyPayload{Level: g.difficulty.Ceiling(), Phase: g.difficulty.Phase().String()}
		if began {
			g.emit(event.EventObstacleSpawningStarted, payload)
		}
		if raised {
			g.emit(event.EventDifficultyChanged, payload)
		}
	}

	if g.difficulty.Spawning() {
		g.maintain()
	}
	return advanced, err
}

// spawnNext attaches one platform at the cursor and moves the cursor to its end anchor
// A malformed instance goes back to its pool and leaves the sequencer untouched
func (g *Generator) spawnNext(forced *core.TurnKind) (*Segment, error) {
	kind := g.sequencer.Choose(forced)
	proto, ok := g.prototypes[kind]
	if !ok {
		g.statFailed.Add(1)
		return nil, fmt.Errorf("track: no prototype for %s", kind)
	}

	node, err := g.pool.Acquire(proto.ID)
	if err != nil {
		g.statFailed.Add(1)
		return nil, fmt.Errorf("track: acquire %s: %w", proto.ID, err)
	}
	end := node.Find(EndPointName)
	if end == nil {
		g.logger.Printf("track: prototype %q is missing an %s child", proto.ID, EndPointName)
		if relErr := g.pool.Release(node); relErr != nil {
			g.logger.Printf("track: release %s: %v", node.Name(), relErr)
		}
		g.statFailed.Add(1)
		return nil, fmt.Errorf("%w: %s", ErrMissingEndAnchor, proto.ID)
	}
	g.sequencer.Commit(kind)

	node.SetParent(g.scope, false)
	node.SetLocalPose(g.cursor)

	seg := &Segment{
		Node:      node,
		End:       end,
		Container: node.Find(ContainerName),
		Trigger:   node.Find(TurnTriggerName),
		Kind:      kind,
		Prototype: proto.ID,
		Start:     node.WorldPosition(),
		Forward:   node.Forward(),
		Index:     g.base + len(g.segments),
	}
	g.cursor = end.WorldPose()
	g.segments = append(g.segments, seg)

	g.statSpawned.Add(1)
	g.statActive.Store(int64(g.ActiveCount()))
	g.emit(event.EventSegmentSpawned, &event.SegmentPayload{Index: seg.Index, Prototype: seg.Prototype, Kind: kind})
	return seg, nil
}

// recycle returns the platform to its pool and its content to the spawners
func (g *Generator) recycle(seg *Segment) {
	if err := g.pool.Release(seg.Node); err != nil {
		g.logger.Printf("track: recycle segment %d: %v", seg.Index, err)
	}
	if seg.Container != nil {
		g.deps.Obstacles.ReturnAll(seg.Container)
		g.deps.Coins.ReturnAll(seg.Container)
	}

	g.segments[seg.Index-g.base] = nil
	for len(g.segments) > 0 && g.segments[0] == nil {
		g.segments = g.segments[1:]
		g.base++
	}

	g.statRecycled.Add(1)
	g.statActive.Store(int64(g.ActiveCount()))
	g.emit(event.EventSegmentRecycled, &event.SegmentPayload{Index: seg.Index, Prototype: seg.Prototype, Kind: seg.Kind})
}

// populate places obstacles first, then coins that avoid them
func (g *Generator) populate(seg *Segment) {
	if seg.Container == nil {
		return
	}
	site := seg.Site()
	occ := spawn.NewOccupancy()
	g.deps.Obstacles.Place(site, occ)
	g.deps.Coins.Populate(site, occ)
}

// maintain fills empty segments near the runner and adds at most one obstacle to each
// populated segment below the current ceiling; existing content is never removed
func (g *Generator) maintain() {
	for i := g.playerIndex; i < g.playerIndex+3; i++ {
		seg := g.at(i)
		if seg == nil || seg.Container == nil {
			continue
		}
		if seg.Container.ChildCount() == 0 {
			g.populate(seg)
			continue
		}
		if seg.Container.CountTagged(core.TagObstacle) < g.difficulty.Ceiling() {
			g.deps.Obstacles.Place(seg.Site(), spawn.OccupancyOf(seg.Container))
		}
	}
}

func (g *Generator) at(index int) *Segment {
	i := index - g.base
	if i < 0 || i >= len(g.segments) {
		return nil
	}
	return g.segments[i]
}

func (g *Generator) emit(t event.EventType, payload any) {
	if g.deps.Emitter != nil {
		g.deps.Emitter.Emit(t, payload)
	}
}

// Halt stops all further generation; used when the run ends and freezing is configured
func (g *Generator) Halt() {
	g.halted = true
}

// Halted reports whether Halt was called
func (g *Generator) Halted() bool {
	return g.halted
}

// Segment returns the live segment with absolute index, or nil
func (g *Generator) Segment(index int) *Segment {
	return g.at(index)
}

// Current returns the segment the runner is tracked on, or nil
func (g *Generator) Current() *Segment {
	return g.at(g.playerIndex)
}

// PlayerIndex returns the runner's tracked segment index
func (g *Generator) PlayerIndex() int {
	return g.playerIndex
}

// ActiveCount returns the number of live segments
func (g *Generator) ActiveCount() int {
	n := 0
	for _, s := range g.segments {
		if s != nil {
			n++
		}
	}
	return n
}

// EachSegment visits live segments in track order
func (g *Generator) EachSegment(fn func(seg *Segment)) {
	for _, s := range g.segments {
		if s != nil {
			fn(s)
		}
	}
}

// SegmentForTrigger finds the live segment owning a turn trigger node
func (g *Generator) SegmentForTrigger(trigger *scene.Node) *Segment {
	for _, s := range g.segments {
		if s != nil && s.Trigger == trigger {
			return s
		}
	}
	return nil
}

// Cursor returns the pose the next segment will attach at
func (g *Generator) Cursor() vmath.Pose {
	return g.cursor
}

// Difficulty exposes the ramp state
func (g *Generator) Difficulty() *Difficulty {
	return g.difficulty
}

// Sequencer exposes the turn history
func (g *Generator) Sequencer() *TurnSequencer {
	return g.sequencer
}

// PoolStats returns the population of one platform prototype
func (g *Generator) PoolStats(id string) pool.Stats {
	return g.pool.Stats(id)
}

// Triggers feeds the turn triggers of live curved segments to a collision detector
func (g *Generator) Triggers(visit func(physics.Candidate)) {
	vol := physics.Volume{Radius: g.cfg.TriggerRadius, Bottom: -1, Top: 3}
	for _, s := range g.segments {
		if s != nil && s.Trigger != nil {
			visit(physics.Candidate{Node: s.Trigger, Volume: vol})
		}
	}
}
