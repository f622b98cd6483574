// Package session wires one run: scene, systems, spawners, generator and the game-over policy
package session

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/physics"
	"github.com/Mefin-SR/FlowtrixGame/player"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/spawn"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/track"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Session owns every component of one run
// All methods are safe to call from the input goroutine and the tick goroutine
type Session struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *log.Logger
	status *status.Registry

	// handlers and sinks survive Restart and are re-attached to each new world
	handlers []event.Handler
	sinks    []spawn.ScoreSink

	graph     *scene.Graph
	world     *engine.World
	runner    *player.Runner
	turns     *player.TurnController
	obstacles *spawn.ObstacleSpawner
	coins     *spawn.CoinSpawner
	generator *track.Generator
	detector  *physics.Detector
	autopilot *Autopilot

	over  bool
	cause string

	statOver *status.AtomicString
	statRuns *atomic.Int64
}

// New builds and starts a run
// reg and logger may be nil
func New(cfg *config.Config, reg *status.Registry, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	s := &Session{
		cfg:      cfg,
		logger:   logger,
		status:   reg,
		statOver: reg.Strings.Get("session.game_over"),
		statRuns: reg.Ints.Get("session.runs"),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) build() error {
	cfg := s.cfg
	seed := cfg.Session.Seed

	s.statRuns.Add(1)
	s.graph = scene.NewGraph()
	s.world = engine.NewWorld(s.status, s.logger)
	s.over = false
	s.cause = ""
	s.statOver.Store("")

	s.obstacles = spawn.NewObstacleSpawner(s.graph, cfg.Obstacles, NewDeterministicRNG(seed, "obstacles"), s.status, s.logger)
	s.coins = spawn.NewCoinSpawner(s.graph, cfg.Coins, NewDeterministicRNG(seed, "coins"), s.status, s.world, s.logger)
	for _, sink := range s.sinks {
		s.coins.AddSink(sink)
	}
	s.coins.ResetScore()

	s.runner = player.NewRunner(s.graph, cfg.Player, s.world, s.world, s.status, s.logger)
	s.turns = player.NewTurnController(s.runner, cfg.Player, s.world)

	gen, err := track.NewGenerator(cfg.Track, cfg.Difficulty, track.DefaultPrototypes(cfg.Track), track.Deps{
		Graph:     s.graph,
		Player:    s.runner,
		Obstacles: s.obstacles,
		Coins:     s.coins,
		Rand:      NewDeterministicRNG(seed, "track"),
		Emitter:   s.world,
		Status:    s.status,
		Logger:    s.logger,
	})
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.generator = gen

	s.detector = physics.NewDetector(s.runner.Node(), s.runner.Volume, s)
	s.detector.AddSource(s.obstacles.Candidates)
	s.detector.AddSource(s.coins.Candidates)
	s.detector.AddSource(s.generator.Triggers)

	s.autopilot = nil
	if cfg.Session.Autopilot {
		s.autopilot = NewAutopilot(s.runner, s.obstacles, cfg.Player, 0)
	}

	s.world.AddSystem(s.runner)
	s.world.AddSystem(s.turns)
	s.world.AddSystem(s.obstacles)
	s.world.AddSystem(s.coins)
	s.world.AddSystem(s.detector)
	s.world.AddSystem(s.generator)

	s.world.RegisterHandler(s.turns)
	for _, h := range s.handlers {
		s.world.RegisterHandler(h)
	}

	s.generator.Start()
	return nil
}

// Subscribe attaches an event handler to this and every restarted world
func (s *Session) Subscribe(h event.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
	s.world.RegisterHandler(h)
}

// AddScoreSink attaches a score display to this and every restarted run
func (s *Session) AddScoreSink(sink spawn.ScoreSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
	s.coins.AddSink(sink)
	sink.SetScore(s.coins.Score())
}

// Step runs one tick of dt seconds with the given input
func (s *Session) Step(dt float64, intent player.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autopilot != nil && !s.over && !s.world.Clock.IsPaused() {
		intent |= s.autopilot.Decide()
	}
	s.runner.SetIntent(intent)
	s.world.Update(dt)
}

// OverlapEnter routes a contact by the tag of what the runner touched
func (s *Session) OverlapEnter(other *scene.Node) {
	switch other.Tag() {
	case core.TagCoin:
		if !s.over {
			s.coins.Collect(other)
		}
	case core.TagObstacle:
		s.world.Emit(event.EventObstacleHit, &event.ObstacleHitPayload{Prototype: other.Prototype()})
		s.gameOver("obstacle:" + other.Prototype())
	case core.TagTrigger:
		if s.over {
			return
		}
		seg := s.generator.SegmentForTrigger(other)
		if seg == nil {
			return
		}
		exit := seg.ExitPose()
		s.world.Emit(event.EventTurnZone, &event.TurnZonePayload{
			Kind:    seg.Kind,
			Segment: seg.Handle(),
			Anchor:  exit.Position,
			Yaw:     vmath.YawOf(exit.Rotation),
		})
	}
}

// gameOver ends the run once; generation keeps going unless freezing is configured
func (s *Session) gameOver(cause string) {
	if s.over {
		return
	}
	s.over = true
	s.cause = cause
	s.statOver.Store(cause)
	s.runner.Freeze()
	s.turns.Cancel()
	if s.cfg.Session.FreezeOnGameOver {
		s.generator.Halt()
	}
	s.logger.Printf("session: game over (%s) score %d distance %.1f", cause, s.coins.Score(), s.runner.Distance())
	s.world.Emit(event.EventGameOver, &event.GameOverPayload{
		Score:    s.coins.Score(),
		Distance: s.runner.Distance(),
		Cause:    cause,
	})
}

// Pause stops game time; events already queued still dispatch
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world.Clock.IsPaused() {
		return
	}
	s.world.Clock.Pause()
	s.world.Emit(event.EventGamePause, nil)
}

// Resume restarts game time
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Clock.Resume()
}

// TogglePause flips between paused and running
func (s *Session) TogglePause() {
	if s.Paused() {
		s.Resume()
	} else {
		s.Pause()
	}
}

// Paused reports whether game time is stopped
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Clock.IsPaused()
}

// Restart discards the run and builds a fresh one from the same configuration and seed
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.build(); err != nil {
		return err
	}
	s.world.Emit(event.EventGameRestart, nil)
	return nil
}

// Over reports whether the run ended and why
func (s *Session) Over() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over, s.cause
}

// Score returns the running score
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coins.Score()
}

// Status returns the metric registry shared by every run of this session
func (s *Session) Status() *status.Registry {
	return s.status
}

// Config returns the run configuration
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Inspect runs fn with the live components while holding the session lock
func (s *Session) Inspect(fn func(w *engine.World, g *track.Generator, r *player.Runner)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world, s.generator, s.runner)
}

// Snapshot copies the poses and counters of the current run
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	diff := s.generator.Difficulty()
	snap := Snapshot{
		Tick:         s.world.TickCount(),
		Score:        s.coins.Score(),
		Distance:     s.runner.Distance(),
		Speed:        s.runner.Speed(),
		Over:         s.over,
		Cause:        s.cause,
		Paused:       s.world.Clock.IsPaused(),
		Phase:        diff.Phase().String(),
		Ceiling:      diff.Ceiling(),
		SegmentIndex: s.generator.PlayerIndex(),
		Runner:       bodyOf(s.runner.Node(), "runner", s.cfg.Player.Radius),
		Lane:         s.runner.Lane(),
		Sliding:      s.runner.Sliding(),
	}
	s.generator.EachSegment(func(seg *track.Segment) {
		snap.Segments = append(snap.Segments, segmentOf(seg))
	})
	s.obstacles.EachActive(func(n *scene.Node) {
		if n.ActiveInHierarchy() {
			snap.Obstacles = append(snap.Obstacles, bodyOf(n, n.Prototype(), s.obstacles.Volume(n).Radius))
		}
	})
	s.coins.EachActive(func(n *scene.Node) {
		if n.ActiveInHierarchy() {
			snap.Coins = append(snap.Coins, bodyOf(n, "coin", s.cfg.Coins.PickupRadius))
		}
	})
	return snap
}
