package session

import (
	"io"
	"log"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/player"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/spawn"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/track"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

const frame = 1.0 / 60

var quiet = log.New(io.Discard, "", 0)

type counter struct {
	counts map[event.EventType]int
}

func newCounter() *counter {
	return &counter{counts: make(map[event.EventType]int)}
}

func (c *counter) HandleEvent(ev event.GameEvent) {
	c.counts[ev.Type]++
}

func (c *counter) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventGameOver,
		event.EventGameRestart,
		event.EventCoinCollected,
		event.EventTurnZone,
		event.EventTurnComplete,
		event.EventGamePause,
	}
}

type scoreBoard struct {
	score int
}

func (b *scoreBoard) SetScore(score int) {
	b.score = score
}

func newSession(t *testing.T, mutate func(cfg *config.Config)) *Session {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, nil, quiet)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func noContent(cfg *config.Config) {
	cfg.Difficulty.InitialDelay = math.MaxFloat64
}

func TestDeterministicSeeds(t *testing.T) {
	if DeterministicSeedValue("flowtrix", "track") == DeterministicSeedValue("flowtrix", "coins") {
		t.Fatal("labels share a seed")
	}
	if DeterministicSeedValue("a", "bc") == DeterministicSeedValue("ab", "c") {
		t.Fatal("seed and label are not separated")
	}
	a, b := NewDeterministicRNG("x", "track"), NewDeterministicRNG("x", "track")
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("same seed produced different streams")
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	a := newSession(t, nil)
	b := newSession(t, nil)
	for i := 0; i < 600; i++ {
		a.Step(frame, player.IntentNone)
		b.Step(frame, player.IntentNone)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Fatal("runs with the same seed diverged")
	}
}

// onTrack reports whether pos lies within the footprint of seg
func onTrack(seg *track.Segment, pos mgl64.Vec3) bool {
	if seg == nil {
		return false
	}
	local := seg.Node.InverseTransformPoint(pos)
	return math.Abs(local[0]) <= 3.5 && local[2] >= -3 && local[2] <= seg.Length()+3
}

func TestRunnerFollowsTurns(t *testing.T) {
	s := newSession(t, noContent)
	c := newCounter()
	s.Subscribe(c)

	for i := 0; i < 60*60; i++ {
		s.Step(frame, player.IntentNone)
		s.Inspect(func(_ *engine.World, g *track.Generator, r *player.Runner) {
			idx := g.PlayerIndex()
			pos := r.Position()
			if !onTrack(g.Segment(idx-1), pos) && !onTrack(g.Segment(idx), pos) && !onTrack(g.Segment(idx+1), pos) {
				t.Fatalf("tick %d: runner at %v left the track around segment %d", i, pos, idx)
			}
		})
	}

	if over, cause := s.Over(); over {
		t.Fatalf("run ended without obstacles: %s", cause)
	}
	snap := s.Snapshot()
	if snap.SegmentIndex < 15 {
		t.Errorf("segment index = %d after a minute", snap.SegmentIndex)
	}
	if len(snap.Segments) > s.Config().Track.PlatformsAhead+1 {
		t.Errorf("%d live segments", len(snap.Segments))
	}
	zones, done := c.counts[event.EventTurnZone], c.counts[event.EventTurnComplete]
	if zones == 0 || done < zones-1 || done > zones {
		t.Errorf("turn zones %d, completed %d", zones, done)
	}
}

// stepUntil advances until cond holds or the budget runs out
func stepUntil(s *Session, ticks int, cond func() bool) bool {
	for i := 0; i < ticks; i++ {
		s.Step(frame, player.IntentNone)
		if cond() {
			return true
		}
	}
	return false
}

func firstActive(each func(func(n *scene.Node))) *scene.Node {
	var found *scene.Node
	each(func(n *scene.Node) {
		if found == nil && n.ActiveInHierarchy() {
			found = n
		}
	})
	return found
}

func TestObstacleContactEndsRunOnce(t *testing.T) {
	for _, freeze := range []bool{false, true} {
		s := newSession(t, func(cfg *config.Config) {
			cfg.Session.FreezeOnGameOver = freeze
		})
		c := newCounter()
		s.Subscribe(c)

		if !stepUntil(s, 600, func() bool { return s.obstacles.Stats().Active > 0 }) {
			t.Fatal("no obstacle placed")
		}
		obstacle := firstActive(s.obstacles.EachActive)
		s.OverlapEnter(obstacle)
		s.OverlapEnter(obstacle)
		s.Step(frame, player.IntentNone)

		over, cause := s.Over()
		if !over || cause != "obstacle:"+obstacle.Prototype() {
			t.Fatalf("over=%v cause=%q", over, cause)
		}
		if c.counts[event.EventGameOver] != 1 {
			t.Errorf("game over events = %d, want 1", c.counts[event.EventGameOver])
		}
		if !s.runner.Frozen() {
			t.Error("runner still moving")
		}
		if s.generator.Halted() != freeze {
			t.Errorf("freeze=%v but halted=%v", freeze, s.generator.Halted())
		}
	}
}

func TestCoinContactScores(t *testing.T) {
	s := newSession(t, func(cfg *config.Config) {
		cfg.Coins.SpawnChance = 1
	})
	board := &scoreBoard{}
	s.AddScoreSink(board)
	c := newCounter()
	s.Subscribe(c)

	if !stepUntil(s, 600, func() bool { return s.coins.Stats().Active > 0 }) {
		t.Fatal("no coin placed")
	}
	before := s.Score()
	coin := firstActive(s.coins.EachActive)
	s.OverlapEnter(coin)
	s.OverlapEnter(coin)

	want := before + s.Config().Coins.Value
	if s.Score() != want || board.score != want {
		t.Fatalf("score = %d board = %d, want %d", s.Score(), board.score, want)
	}
	s.Step(frame, player.IntentNone)
	if c.counts[event.EventCoinCollected] < 1 {
		t.Error("no collection event")
	}
}

func TestTriggerStartsTurn(t *testing.T) {
	s := newSession(t, noContent)
	seg := s.generator.Segment(0)
	if seg.Kind != core.TurnRight || seg.Trigger == nil {
		t.Fatalf("segment 0 is %s", seg.Kind)
	}

	s.OverlapEnter(seg.Trigger)
	s.Step(frame, player.IntentNone)
	if !s.turns.Turning() {
		t.Fatal("turn not started")
	}
	stepUntil(s, 60, func() bool { return !s.turns.Turning() })
	if yaw := vmath.YawOf(s.runner.Heading()); math.Abs(yaw-90) > 1e-6 {
		t.Errorf("heading = %f, want 90", yaw)
	}
}

func TestPauseStopsTime(t *testing.T) {
	s := newSession(t, noContent)
	c := newCounter()
	s.Subscribe(c)
	s.Step(frame, player.IntentNone)

	s.Pause()
	before := s.Snapshot()
	for i := 0; i < 10; i++ {
		s.Step(frame, player.IntentJump)
	}
	after := s.Snapshot()
	if after.Tick != before.Tick || after.Distance != before.Distance || !after.Paused {
		t.Fatalf("time moved while paused: %d -> %d", before.Tick, after.Tick)
	}
	if c.counts[event.EventGamePause] != 1 {
		t.Errorf("pause events = %d", c.counts[event.EventGamePause])
	}

	s.TogglePause()
	s.Step(frame, player.IntentNone)
	if s.Snapshot().Tick != before.Tick+1 {
		t.Error("time did not resume")
	}
}

func TestRestartRebuildsRun(t *testing.T) {
	s := newSession(t, nil)
	c := newCounter()
	s.Subscribe(c)
	board := &scoreBoard{score: -1}
	s.AddScoreSink(board)

	first := s.Snapshot()
	for i := 0; i < 300; i++ {
		s.Step(frame, player.IntentNone)
	}
	if !stepUntil(s, 600, func() bool { return s.obstacles.Stats().Active > 0 }) {
		t.Fatal("no obstacle placed")
	}
	s.OverlapEnter(firstActive(s.obstacles.EachActive))

	if err := s.Restart(); err != nil {
		t.Fatal(err)
	}
	if over, _ := s.Over(); over {
		t.Fatal("restarted run is over")
	}
	if board.score != 0 {
		t.Errorf("board = %d after restart", board.score)
	}
	if !reflect.DeepEqual(s.Snapshot(), first) {
		t.Error("restart did not reproduce the opening")
	}

	s.Step(frame, player.IntentNone)
	if c.counts[event.EventGameRestart] != 1 {
		t.Errorf("restart events = %d, handler not carried over", c.counts[event.EventGameRestart])
	}
	if got := s.Status().Ints.Get("session.runs").Load(); got != 2 {
		t.Errorf("runs = %d", got)
	}
}

// scripted replays fixed draws and falls back to zero
type scripted struct {
	floats []float64
	ints   []int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

type placement struct {
	lane  int // index into the straight lane set {-2, 0, 2}
	z     float64
	proto int // barrier, beam, block
}

func TestAutopilotDecide(t *testing.T) {
	tests := []struct {
		name   string
		placed []placement
		want   player.Intent
	}{
		{"clear road", nil, player.IntentNone},
		{"block ahead dodges left", []placement{{1, 4, 2}}, player.IntentLeft},
		{"block ahead on the left edge dodges right", []placement{{1, 4, 2}, {0, 1, 2}}, player.IntentRight},
		{"barriers everywhere jumps", []placement{{1, 3, 0}, {0, 5.5, 0}, {2, 6, 0}}, player.IntentJump},
		{"beams everywhere slides", []placement{{1, 3, 1}, {0, 5.5, 1}, {2, 6, 1}}, player.IntentSlide},
		{"far barrier waits", []placement{{1, 5.9, 0}, {0, 2, 2}, {2, 2, 2}}, player.IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			graph := scene.NewGraph()
			rng := &scripted{}
			obstacles := spawn.NewObstacleSpawner(graph, cfg.Obstacles, rng, status.NewRegistry(), quiet)
			runner := player.NewRunner(graph, cfg.Player, engine.NewScheduler(), nil, nil, quiet)

			platform := graph.NewNode("platform", core.TagPlatform)
			site := spawn.Site{
				Kind:      core.TurnStraight,
				Length:    20,
				Forward:   platform.Forward(),
				Container: graph.NewNodeUnder(platform, "Obstacles", core.TagContainer, ""),
			}
			for _, p := range tt.placed {
				rng.ints = []int{p.lane, p.proto}
				rng.floats = []float64{(p.z - 1) / 18}
				if !obstacles.Place(site, spawn.NewOccupancy()) {
					t.Fatalf("could not place %+v", p)
				}
			}

			ap := NewAutopilot(runner, obstacles, cfg.Player, 0)
			if got := ap.Decide(); got != tt.want {
				t.Errorf("Decide() = %s, want %s", got, tt.want)
			}
		})
	}
}
