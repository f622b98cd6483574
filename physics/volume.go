// Package physics provides the overlap tests and vertical kinematics of the runner world
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Volume is an upright cylinder anchored at a node's world position
// Bottom and Top are offsets above the anchor
type Volume struct {
	Radius float64
	Bottom float64
	Top    float64
}

// Span returns the absolute vertical interval of v anchored at y
func (v Volume) Span(y float64) (lo, hi float64) {
	return y + v.Bottom, y + v.Top
}

// contactEpsilon absorbs rounding when boundaries meet exactly
const contactEpsilon = 1e-9

// Overlaps reports whether a at aPos and b at bPos intersect
// Touching boundaries do not count
func Overlaps(aPos mgl64.Vec3, a Volume, bPos mgl64.Vec3, b Volume) bool {
	if vmath.PlanarDistance(aPos, bPos) >= a.Radius+b.Radius-contactEpsilon {
		return false
	}
	aLo, aHi := a.Span(aPos[1])
	bLo, bHi := b.Span(bPos[1])
	return aLo < bHi-contactEpsilon && bLo < aHi-contactEpsilon
}
