package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Yaw builds a rotation of deg degrees about the up axis
// Positive yaw turns the forward axis toward +X
func Yaw(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// Roll builds a rotation of deg degrees about the forward axis
func Roll(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Forward)
}

// YawOf extracts the heading of q in degrees, measured from +Z toward +X
func YawOf(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return mgl64.RadToDeg(math.Atan2(f[0], f[2]))
}

// LookRotation returns the heading-only rotation whose forward axis points along dir
// A zero or vertical dir yields identity
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir[0] == 0 && dir[2] == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(dir[0], dir[2]), Up)
}

// Angle returns the angle between two rotations in degrees
func Angle(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Normalize().Dot(b.Normalize()))
	if d > 1 {
		d = 1
	}
	return mgl64.RadToDeg(2 * math.Acos(d))
}

// RotateTowards turns from toward to by at most maxDeg degrees
func RotateTowards(from, to mgl64.Quat, maxDeg float64) mgl64.Quat {
	angle := Angle(from, to)
	if angle == 0 || maxDeg >= angle {
		return to
	}
	if maxDeg <= 0 {
		return from
	}
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, maxDeg/angle).Normalize()
}
