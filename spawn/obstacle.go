package spawn

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/physics"
	"github.com/Mefin-SR/FlowtrixGame/pool"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// motion animates an obstacle's rotation around the pose it was placed with
type motion struct {
	kind    string
	base    mgl64.Quat
	elapsed float64
}

// ObstacleSpawner owns the obstacle prototypes, their pools and placement on one segment
type ObstacleSpawner struct {
	cfg     config.ObstacleConfig
	pool    *pool.Pool[*scene.Node]
	holding *scene.Node
	byID    map[string]config.ObstaclePrototype
	rng     Rand
	logger  *log.Logger

	motions map[*scene.Node]*motion

	statPlaced  *atomic.Int64
	statSkipped *atomic.Int64
	statActive  *atomic.Int64
}

// NewObstacleSpawner registers every prototype with PoolSize pre-built instances parked under a holding scope
func NewObstacleSpawner(graph *scene.Graph, cfg config.ObstacleConfig, rng Rand, reg *status.Registry, logger *log.Logger) *ObstacleSpawner {
	if logger == nil {
		logger = log.Default()
	}
	s := &ObstacleSpawner{
		cfg:         cfg,
		holding:     graph.NewScope("obstacle-pool"),
		byID:        make(map[string]config.ObstaclePrototype, len(cfg.Prototypes)),
		rng:         rng,
		logger:      logger,
		motions:     make(map[*scene.Node]*motion),
		statPlaced:  reg.Ints.Get("obstacles.placed"),
		statSkipped: reg.Ints.Get("obstacles.skipped"),
		statActive:  reg.Ints.Get("obstacles.active"),
	}
	s.holding.SetActive(false)

	built := 0
	s.pool = pool.New(pool.Hooks[*scene.Node]{
		New: func(prototype string) *scene.Node {
			built++
			return graph.NewNodeUnder(s.holding, fmt.Sprintf("%s#%d", prototype, built), core.TagObstacle, prototype)
		},
		Park: func(n *scene.Node) {
			n.SetParent(s.holding, false)
		},
		Destroy: func(n *scene.Node) {
			n.Destroy()
		},
	}, logger)

	for _, p := range cfg.Prototypes {
		s.byID[p.ID] = p
		s.pool.Register(p.ID, cfg.PoolSize)
	}
	return s
}

// bandFor picks lanes and span by segment kind
// Curved segments keep to a narrow middle band away from the bend
func (s *ObstacleSpawner) bandFor(site Site) band {
	if site.Kind.Curved() {
		return band{
			lanes: []float64{-parameter.CurvedLaneOffset, 0, parameter.CurvedLaneOffset},
			minZ:  site.Length * parameter.CurvedBandStart,
			maxZ:  site.Length * parameter.CurvedBandEnd,
		}
	}
	return band{
		lanes: []float64{-parameter.StraightLaneOffset, 0, parameter.StraightLaneOffset},
		minZ:  parameter.StraightEdgeMargin,
		maxZ:  site.Length - parameter.StraightEdgeMargin,
	}
}

// Place tries PlacementAttempts random spots and puts one obstacle on the first clear one
// Existing obstacles in the container count as occupied even if occ lacks them
// Returns false without placing when every attempt collides
func (s *ObstacleSpawner) Place(site Site, occ *Occupancy) bool {
	for i := 0; i < site.Container.ChildCount(); i++ {
		child := site.Container.Child(i)
		if child.Tag() == core.TagObstacle && child.Active() && !occ.Contains(child.LocalPosition()) {
			occ.Claim(child.LocalPosition())
		}
	}

	b := s.bandFor(site)
	for attempt := 0; attempt < s.cfg.PlacementAttempts; attempt++ {
		x, z := b.sample(s.rng)
		local := mgl64.Vec3{x, s.cfg.Height, z}
		if !occ.Clear(local, s.cfg.MinSpacing) {
			continue
		}

		proto := s.cfg.Prototypes[s.rng.Intn(len(s.cfg.Prototypes))]
		node, err := s.pool.Acquire(proto.ID)
		if err != nil {
			s.logger.Printf("obstacle: %v", err)
			return false
		}
		node.SetParent(site.Container, false)
		node.SetLocalPosition(local)
		node.SetWorldRotation(vmath.LookRotation(site.Forward.Mul(-1)))
		if proto.Motion != "" {
			s.motions[node] = &motion{kind: proto.Motion, base: node.LocalRotation()}
		}

		occ.Claim(local)
		s.statPlaced.Add(1)
		s.statActive.Store(int64(s.pool.Total().Active))
		return true
	}
	s.statSkipped.Add(1)
	return false
}

// Return sends one obstacle back to its pool
func (s *ObstacleSpawner) Return(n *scene.Node) error {
	delete(s.motions, n)
	err := s.pool.Release(n)
	s.statActive.Store(int64(s.pool.Total().Active))
	return err
}

// ReturnAll releases every obstacle under container and leaves other children alone
func (s *ObstacleSpawner) ReturnAll(container *scene.Node) int {
	returned := 0
	for i := container.ChildCount() - 1; i >= 0; i-- {
		child := container.Child(i)
		if child.Tag() != core.TagObstacle {
			continue
		}
		if err := s.Return(child); err != nil {
			s.logger.Printf("obstacle: return %s: %v", child.Name(), err)
			continue
		}
		returned++
	}
	return returned
}

// Volume returns the collision volume of an obstacle instance
func (s *ObstacleSpawner) Volume(n *scene.Node) physics.Volume {
	p, ok := s.byID[n.Prototype()]
	if !ok {
		return physics.Volume{}
	}
	return physics.Volume{Radius: p.Radius, Bottom: p.Bottom, Top: p.Top}
}

// Candidates feeds active obstacles to a collision detector
func (s *ObstacleSpawner) Candidates(visit func(physics.Candidate)) {
	s.pool.EachActive(func(n *scene.Node) {
		visit(physics.Candidate{Node: n, Volume: s.Volume(n)})
	})
}

// EachActive visits every obstacle currently placed on the track
func (s *ObstacleSpawner) EachActive(fn func(n *scene.Node)) {
	s.pool.EachActive(fn)
}

// Stats returns the population summed over every obstacle prototype
func (s *ObstacleSpawner) Stats() pool.Stats {
	return s.pool.Total()
}

// PrototypeStats returns the population of one prototype
func (s *ObstacleSpawner) PrototypeStats(id string) pool.Stats {
	return s.pool.Stats(id)
}

func (s *ObstacleSpawner) Name() string {
	return "obstacle-motion"
}

func (s *ObstacleSpawner) Priority() int {
	return parameter.PriorityMotion
}

// Tick advances spinning and swinging obstacles; only rotation changes
func (s *ObstacleSpawner) Tick(dt float64) {
	for n, m := range s.motions {
		m.elapsed += dt
		switch m.kind {
		case "spin":
			angle := math.Mod(m.elapsed*parameter.ObstacleSpinSpeed, 360)
			n.SetLocalRotation(m.base.Mul(vmath.Yaw(angle)).Normalize())
		case "swing":
			angle := math.Sin(m.elapsed*parameter.ObstacleSwingRate) * parameter.ObstacleSwingAmplitude
			n.SetLocalRotation(m.base.Mul(vmath.Roll(angle)).Normalize())
		}
	}
}
