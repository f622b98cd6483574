// Package spawn places obstacles and coins inside a segment's content container
package spawn

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/scene"
)

// Site is the part of a segment a spawner needs to populate it
type Site struct {
	Kind core.TurnKind

	// Length is the distance from the segment start to its end anchor
	Length float64

	// Forward is the world forward direction the segment was placed with
	Forward mgl64.Vec3

	Container *scene.Node
}

// band is the lane set and longitudinal interval items may occupy
type band struct {
	lanes      []float64
	minZ, maxZ float64
}

func (b band) sample(rng Rand) (x, z float64) {
	x = b.lanes[rng.Intn(len(b.lanes))]
	z = b.minZ + rng.Float64()*(b.maxZ-b.minZ)
	return x, z
}

// Rand is the subset of math/rand used for placement
type Rand interface {
	Float64() float64
	Intn(n int) int
}
