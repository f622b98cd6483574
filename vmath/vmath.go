package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis vectors in the track frame: Y is up, Z is forward, X is right
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates from a to b with t clamped to [0, 1]
func Lerp(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}

// Distance returns the euclidean distance between two points
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// PlanarDistance ignores the vertical axis
func PlanarDistance(a, b mgl64.Vec3) float64 {
	dx, dz := a[0]-b[0], a[2]-b[2]
	return math.Sqrt(dx*dx + dz*dz)
}

// ForwardProgress is the signed distance of point past origin along forward
// forward is expected to be unit length
func ForwardProgress(origin, forward, point mgl64.Vec3) float64 {
	return point.Sub(origin).Dot(forward)
}
