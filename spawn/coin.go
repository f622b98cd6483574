package spawn

import (
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
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

const coinPrototype = "coin"

// ScoreSink displays the running score
type ScoreSink interface {
	SetScore(score int)
}

// CoinSpawner owns the coin pool, coin placement and the score
type CoinSpawner struct {
	cfg     config.CoinConfig
	pool    *pool.Pool[*scene.Node]
	holding *scene.Node
	rng     Rand
	logger  *log.Logger

	sinks   []ScoreSink
	emitter engine.Emitter
	score   int

	statScore     *atomic.Int64
	statCollected *atomic.Int64
	statLines     *atomic.Int64
	statRejected  *atomic.Int64
}

// NewCoinSpawner pre-builds PoolSize coins under a holding scope
// emitter may be nil
func NewCoinSpawner(graph *scene.Graph, cfg config.CoinConfig, rng Rand, reg *status.Registry, emitter engine.Emitter, logger *log.Logger) *CoinSpawner {
	if logger == nil {
		logger = log.Default()
	}
	s := &CoinSpawner{
		cfg:           cfg,
		holding:       graph.NewScope("coin-pool"),
		rng:           rng,
		logger:        logger,
		emitter:       emitter,
		statScore:     reg.Ints.Get("score"),
		statCollected: reg.Ints.Get("coins.collected"),
		statLines:     reg.Ints.Get("coins.lines"),
		statRejected:  reg.Ints.Get("coins.lines_rejected"),
	}
	s.holding.SetActive(false)

	built := 0
	s.pool = pool.New(pool.Hooks[*scene.Node]{
		New: func(prototype string) *scene.Node {
			built++
			return graph.NewNodeUnder(s.holding, fmt.Sprintf("%s#%d", prototype, built), core.TagCoin, prototype)
		},
		Park: func(n *scene.Node) {
			n.SetParent(s.holding, false)
		},
		Destroy: func(n *scene.Node) {
			n.Destroy()
		},
	}, logger)
	s.pool.Register(coinPrototype, cfg.PoolSize)
	return s
}

// AddSink registers a score display
func (s *CoinSpawner) AddSink(sink ScoreSink) {
	s.sinks = append(s.sinks, sink)
	sink.SetScore(s.score)
}

func (s *CoinSpawner) lanes() []float64 {
	return []float64{-parameter.StraightLaneOffset, 0, parameter.StraightLaneOffset}
}

// Populate decides whether this segment gets coins and places either a line or scattered coins
// Every coin keeps MinSpacing from everything already in occ; returns the number placed
func (s *CoinSpawner) Populate(site Site, occ *Occupancy) int {
	if s.rng.Float64() > s.cfg.SpawnChance {
		return 0
	}
	if s.rng.Float64() < s.cfg.LineChance {
		lanes := s.lanes()
		lane := lanes[s.rng.Intn(len(lanes))]
		lo := parameter.CoinLineStartMargin
		hi := site.Length - float64(s.cfg.PerLine)*s.cfg.LineSpacing - parameter.CoinLineEndMargin
		if hi < lo {
			hi = lo
		}
		startZ := lo + s.rng.Float64()*(hi-lo)
		return s.PlaceLine(site, occ, lane, startZ)
	}
	return s.Scatter(site, occ)
}

// PlaceLine puts PerLine coins in one lane from startZ onward, LineSpacing apart
// The line is rejected whole if any coin would crowd an occupied position
func (s *CoinSpawner) PlaceLine(site Site, occ *Occupancy, lane, startZ float64) int {
	positions := make([]mgl64.Vec3, s.cfg.PerLine)
	for i := range positions {
		positions[i] = mgl64.Vec3{lane, s.cfg.Height, startZ + float64(i)*s.cfg.LineSpacing}
		if !occ.Clear(positions[i], s.cfg.MinSpacing) {
			s.statRejected.Add(1)
			return 0
		}
	}
	placed := 0
	for _, pos := range positions {
		if !s.spawnAt(site, pos) {
			break
		}
		occ.Claim(pos)
		placed++
	}
	s.statLines.Add(1)
	return placed
}

// Scatter places 1..MaxPerPlatform single coins, each with its own PlacementAttempts draws
// A coin that finds no clear spot is skipped
func (s *CoinSpawner) Scatter(site Site, occ *Occupancy) int {
	b := band{
		lanes: s.lanes(),
		minZ:  parameter.StraightEdgeMargin,
		maxZ:  site.Length - parameter.StraightEdgeMargin,
	}
	want := 1 + s.rng.Intn(s.cfg.MaxPerPlatform)
	placed := 0
	for ; want > 0; want-- {
		for attempts := s.cfg.PlacementAttempts; attempts > 0; attempts-- {
			x, z := b.sample(s.rng)
			pos := mgl64.Vec3{x, s.cfg.Height, z}
			if occ.Clear(pos, s.cfg.MinSpacing) && s.spawnAt(site, pos) {
				occ.Claim(pos)
				placed++
				break
			}
		}
	}
	return placed
}

func (s *CoinSpawner) spawnAt(site Site, local mgl64.Vec3) bool {
	coin, err := s.pool.Acquire(coinPrototype)
	if err != nil {
		s.logger.Printf("coin: %v", err)
		return false
	}
	coin.SetParent(site.Container, false)
	coin.SetLocalPosition(local)
	coin.SetLocalRotation(mgl64.QuatIdent())
	return true
}

// Collect returns a touched coin to the pool and scores it
// A coin that is not currently issued scores nothing
func (s *CoinSpawner) Collect(coin *scene.Node) bool {
	if coin.Tag() != core.TagCoin || !coin.Active() || !s.pool.CheckedOut(coin) {
		return false
	}
	if err := s.pool.Release(coin); err != nil {
		s.logger.Printf("coin: collect %s: %v", coin.Name(), err)
		return false
	}

	s.score += s.cfg.Value
	s.statScore.Store(int64(s.score))
	s.statCollected.Add(1)
	for _, sink := range s.sinks {
		sink.SetScore(s.score)
	}
	if s.emitter != nil {
		s.emitter.Emit(event.EventCoinCollected, &event.CoinPayload{Value: s.cfg.Value, Score: s.score})
	}
	return true
}

// ReturnAll releases every coin under container without scoring them
func (s *CoinSpawner) ReturnAll(container *scene.Node) int {
	returned := 0
	for i := container.ChildCount() - 1; i >= 0; i-- {
		child := container.Child(i)
		if child.Tag() != core.TagCoin {
			continue
		}
		if err := s.pool.Release(child); err != nil {
			s.logger.Printf("coin: return %s: %v", child.Name(), err)
			continue
		}
		returned++
	}
	return returned
}

// Score returns the running score
func (s *CoinSpawner) Score() int {
	return s.score
}

// ResetScore zeroes the score and refreshes every display
func (s *CoinSpawner) ResetScore() {
	s.score = 0
	s.statScore.Store(0)
	for _, sink := range s.sinks {
		sink.SetScore(0)
	}
}

// Candidates feeds active coins to a collision detector
func (s *CoinSpawner) Candidates(visit func(physics.Candidate)) {
	r := s.cfg.PickupRadius
	s.pool.EachActive(func(n *scene.Node) {
		visit(physics.Candidate{Node: n, Volume: physics.Volume{Radius: r, Bottom: -r, Top: r}})
	})
}

// EachActive visits every coin currently on the track
func (s *CoinSpawner) EachActive(fn func(n *scene.Node)) {
	s.pool.EachActive(fn)
}

// Stats returns the coin pool population
func (s *CoinSpawner) Stats() pool.Stats {
	return s.pool.Stats(coinPrototype)
}

func (s *CoinSpawner) Name() string {
	return "coin-motion"
}

func (s *CoinSpawner) Priority() int {
	return parameter.PriorityMotion
}

// Tick spins every active coin about its up axis
func (s *CoinSpawner) Tick(dt float64) {
	step := vmath.Yaw(parameter.CoinSpinSpeed * dt)
	s.pool.EachActive(func(n *scene.Node) {
		n.SetLocalRotation(n.LocalRotation().Mul(step).Normalize())
	})
}
