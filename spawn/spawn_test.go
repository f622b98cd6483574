package spawn

import (
	"io"
	"log"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/event"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

var quiet = log.New(io.Discard, "", 0)

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

type scoreBoard struct {
	last  int
	calls int
}

func (b *scoreBoard) SetScore(score int) {
	b.last = score
	b.calls++
}

type emitted struct {
	events []event.EventType
}

func (e *emitted) Emit(t event.EventType, payload any) {
	e.events = append(e.events, t)
}

func newSite(g *scene.Graph, kind core.TurnKind, yaw float64) Site {
	platform := g.NewNode("platform", core.TagPlatform)
	platform.SetLocalPose(vmath.NewPose(mgl64.Vec3{10, 0, 5}, yaw))
	container := g.NewNodeUnder(platform, "Obstacles", core.TagContainer, "")
	return Site{
		Kind:      kind,
		Length:    20,
		Forward:   platform.Forward(),
		Container: container,
	}
}

func TestObstaclePlacementRespectsBandAndFacing(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	obstacles := NewObstacleSpawner(g, cfg.Obstacles, rand.New(rand.NewSource(7)), status.NewRegistry(), quiet)

	for _, kind := range core.TurnKinds {
		site := newSite(g, kind, 90)
		occ := NewOccupancy()
		for i := 0; i < 5; i++ {
			obstacles.Place(site, occ)
		}
		if site.Container.CountTagged(core.TagObstacle) == 0 {
			t.Fatalf("%s: nothing placed on an empty segment", kind)
		}
		for _, child := range site.Container.Children() {
			p := child.LocalPosition()
			if kind.Curved() {
				if p[2] < 6 || p[2] > 14 || math.Abs(p[0]) > 1 {
					t.Errorf("%s: %v outside curved band", kind, p)
				}
			} else if p[2] < 1 || p[2] > 19 || (p[0] != 0 && math.Abs(p[0]) != 2) {
				t.Errorf("%s: %v outside straight band", kind, p)
			}
			facing := child.Forward()
			if facing.Dot(site.Forward) > -0.999 {
				t.Errorf("%s: obstacle faces %v, want reverse of %v", kind, facing, site.Forward)
			}
		}
	}
}

func TestObstaclePlacementSkipsWhenSaturated(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	obstacles := NewObstacleSpawner(g, cfg.Obstacles, rand.New(rand.NewSource(1)), status.NewRegistry(), quiet)
	site := newSite(g, core.TurnStraight, 0)

	occ := NewOccupancy()
	for z := 0.0; z <= 20; z += 0.5 {
		for _, x := range []float64{-2, 0, 2} {
			occ.Claim(mgl64.Vec3{x, 0, z})
		}
	}
	before := obstacles.Stats()
	if obstacles.Place(site, occ) {
		t.Fatal("placed on a saturated segment")
	}
	if site.Container.ChildCount() != 0 {
		t.Error("saturated segment gained children")
	}
	if obstacles.Stats() != before {
		t.Error("failed placement touched the pool")
	}
}

func TestCoinLineRejectedAtomically(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	coins := NewCoinSpawner(g, cfg.Coins, &scripted{}, status.NewRegistry(), nil, quiet)
	site := newSite(g, core.TurnStraight, 0)

	occ := NewOccupancy()
	occ.Claim(mgl64.Vec3{0, cfg.Coins.Height, 3.0})
	if n := coins.PlaceLine(site, occ, 0, 2.0); n != 0 {
		t.Fatalf("placed %d coins, want whole line rejected", n)
	}
	if site.Container.ChildCount() != 0 || occ.Len() != 1 {
		t.Error("rejected line left traces")
	}

	if n := coins.PlaceLine(site, occ, 2, 2.0); n != cfg.Coins.PerLine {
		t.Fatalf("clear lane placed %d, want %d", n, cfg.Coins.PerLine)
	}
	for i, child := range site.Container.Children() {
		want := mgl64.Vec3{2, cfg.Coins.Height, 2.0 + float64(i)*cfg.Coins.LineSpacing}
		if !child.LocalPosition().ApproxEqual(want) {
			t.Errorf("coin %d at %v, want %v", i, child.LocalPosition(), want)
		}
	}
}

func TestPopulateRollsSpawnChance(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	coins := NewCoinSpawner(g, cfg.Coins, &scripted{floats: []float64{0.9}}, status.NewRegistry(), nil, quiet)
	site := newSite(g, core.TurnStraight, 0)
	if n := coins.Populate(site, NewOccupancy()); n != 0 {
		t.Errorf("roll above chance placed %d coins", n)
	}
}

// Each scattered coin gets its own attempt budget, so a late coin still lands on its last draw
func TestScatterAttemptsPerCoin(t *testing.T) {
	cfg := config.Default()
	cfg.Coins.MaxPerPlatform = 2
	cfg.Coins.PlacementAttempts = 10
	cfg.Coins.MinSpacing = 2

	// want = 1 + 1, first coin in lane -2, nine draws into the claimed middle lane, then lane +2
	ints := []int{1, 0}
	floats := []float64{0}
	for i := 0; i < 9; i++ {
		ints = append(ints, 1)
		floats = append(floats, 0.5)
	}
	ints = append(ints, 2)
	floats = append(floats, 1)

	g := scene.NewGraph()
	coins := NewCoinSpawner(g, cfg.Coins, &scripted{floats: floats, ints: ints}, status.NewRegistry(), nil, quiet)
	site := newSite(g, core.TurnStraight, 0)
	occ := NewOccupancy()
	occ.Claim(mgl64.Vec3{0, cfg.Coins.Height, 10})

	if n := coins.Scatter(site, occ); n != 2 {
		t.Fatalf("placed %d coins, want 2", n)
	}
	want := []mgl64.Vec3{
		{-2, cfg.Coins.Height, 1},
		{2, cfg.Coins.Height, 19},
	}
	for i, child := range site.Container.Children() {
		if !child.LocalPosition().ApproxEqual(want[i]) {
			t.Errorf("coin %d at %v, want %v", i, child.LocalPosition(), want[i])
		}
	}
}

// Coins and obstacles from one pass keep their spacing from each other
func TestPopulatedSpacingProperty(t *testing.T) {
	cfg := config.Default()
	cfg.Coins.SpawnChance = 1
	cfg.Coins.LineChance = 0
	cfg.Coins.MaxPerPlatform = 6

	for seed := int64(0); seed < 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := scene.NewGraph()
		reg := status.NewRegistry()
		obstacles := NewObstacleSpawner(g, cfg.Obstacles, rng, reg, quiet)
		coins := NewCoinSpawner(g, cfg.Coins, rng, reg, nil, quiet)
		site := newSite(g, core.TurnKinds[seed%3], float64(seed*30))

		occ := NewOccupancy()
		for i := 0; i < 3; i++ {
			obstacles.Place(site, occ)
		}
		coins.Populate(site, occ)

		children := site.Container.Children()
		for i := range children {
			for j := i + 1; j < len(children); j++ {
				a, b := children[i], children[j]
				spacing := cfg.Coins.MinSpacing
				if a.Tag() == core.TagObstacle && b.Tag() == core.TagObstacle {
					spacing = cfg.Obstacles.MinSpacing
				}
				if d := vmath.Distance(a.LocalPosition(), b.LocalPosition()); d < spacing {
					t.Fatalf("seed %d: %s and %s only %.2f apart", seed, a.Name(), b.Name(), d)
				}
			}
		}
	}
}

func TestCollectScoresOnce(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	emit := &emitted{}
	coins := NewCoinSpawner(g, cfg.Coins, &scripted{}, status.NewRegistry(), emit, quiet)
	board := &scoreBoard{}
	coins.AddSink(board)
	site := newSite(g, core.TurnStraight, 0)
	coins.PlaceLine(site, NewOccupancy(), 0, 2)

	coin := site.Container.Child(0)
	if !coins.Collect(coin) {
		t.Fatal("Collect of an issued coin failed")
	}
	if coins.Collect(coin) {
		t.Error("a returned coin must not score again")
	}
	if coins.Score() != cfg.Coins.Value || board.last != cfg.Coins.Value {
		t.Errorf("score = %d board = %d", coins.Score(), board.last)
	}
	if coin.Active() || coin.Parent() == site.Container {
		t.Error("collected coin must be parked")
	}
	if len(emit.events) != 1 || emit.events[0] != event.EventCoinCollected {
		t.Errorf("events = %v", emit.events)
	}
}

func TestReturnAllSortsByTagWithoutScoring(t *testing.T) {
	cfg := config.Default()
	g := scene.NewGraph()
	rng := rand.New(rand.NewSource(3))
	reg := status.NewRegistry()
	obstacles := NewObstacleSpawner(g, cfg.Obstacles, rng, reg, quiet)
	coins := NewCoinSpawner(g, cfg.Coins, rng, reg, nil, quiet)
	site := newSite(g, core.TurnStraight, 0)

	occ := NewOccupancy()
	obstacles.Place(site, occ)
	coins.PlaceLine(site, NewOccupancy(), 2, 10)
	nObstacles := site.Container.CountTagged(core.TagObstacle)
	nCoins := site.Container.CountTagged(core.TagCoin)

	if got := obstacles.ReturnAll(site.Container); got != nObstacles {
		t.Errorf("obstacles returned %d, want %d", got, nObstacles)
	}
	if site.Container.CountTagged(core.TagCoin) != nCoins {
		t.Error("obstacle ReturnAll touched coins")
	}
	if got := coins.ReturnAll(site.Container); got != nCoins {
		t.Errorf("coins returned %d, want %d", got, nCoins)
	}
	if site.Container.ChildCount() != 0 {
		t.Error("container not emptied")
	}
	if coins.Score() != 0 {
		t.Error("recycling must not score")
	}
	if st := coins.Stats(); st.Active != 0 || st.Constructed != st.Pooled {
		t.Errorf("coin stats = %+v", st)
	}
}

func TestOccupancyOfUsesActiveChildren(t *testing.T) {
	g := scene.NewGraph()
	site := newSite(g, core.TurnLeft, 0)
	a := g.NewNodeUnder(site.Container, "a", core.TagCoin, "coin")
	a.SetLocalPosition(mgl64.Vec3{0, 1, 4})
	b := g.NewNodeUnder(site.Container, "b", core.TagObstacle, "barrier")
	b.SetLocalPosition(mgl64.Vec3{1, 0, 8})
	b.SetActive(false)

	occ := OccupancyOf(site.Container)
	if occ.Len() != 1 || occ.Positions()[0] != a.LocalPosition() {
		t.Errorf("positions = %v", occ.Positions())
	}
	if occ.Clear(mgl64.Vec3{0, 1, 5}, 2) {
		t.Error("(0,1,5) is within 2 of (0,1,4)")
	}
	if !occ.Clear(mgl64.Vec3{0, 1, 7}, 2) {
		t.Error("(0,1,7) keeps 3 from (0,1,4)")
	}
}

func TestObstacleMotionRotatesOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Obstacles.Prototypes = []config.ObstaclePrototype{{ID: "block", Radius: 0.8, Top: 2, Motion: "spin"}}
	g := scene.NewGraph()
	obstacles := NewObstacleSpawner(g, cfg.Obstacles, rand.New(rand.NewSource(5)), status.NewRegistry(), quiet)
	site := newSite(g, core.TurnStraight, 0)
	obstacles.Place(site, NewOccupancy())

	n := site.Container.Child(0)
	pos := n.LocalPosition()
	before := n.LocalRotation()
	obstacles.Tick(1)
	if n.LocalPosition() != pos {
		t.Error("motion moved the obstacle")
	}
	if got := vmath.Angle(before, n.LocalRotation()); math.Abs(got-45) > 1e-3 {
		t.Errorf("spin after 1s = %.3f deg, want 45", got)
	}
}
