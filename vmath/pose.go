package vmath

import "github.com/go-gl/mathgl/mgl64"

// Pose is a position with an orientation
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityPose is the origin facing +Z
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// NewPose builds a pose from a position and a heading in degrees
func NewPose(position mgl64.Vec3, yawDeg float64) Pose {
	return Pose{Position: position, Rotation: Yaw(yawDeg)}
}

// Forward returns the pose's forward axis
func (p Pose) Forward() mgl64.Vec3 {
	return p.Rotation.Rotate(Forward)
}

// Right returns the pose's right axis
func (p Pose) Right() mgl64.Vec3 {
	return p.Rotation.Rotate(Right)
}

// TransformPoint maps a point from this pose's local frame into the parent frame
func (p Pose) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(local))
}

// InverseTransformPoint maps a parent-frame point into this pose's local frame
func (p Pose) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Inverse().Rotate(world.Sub(p.Position))
}

// Compose places a child pose expressed in this pose's frame into the parent frame
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position: p.TransformPoint(local.Position),
		Rotation: p.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// Relative expresses a parent-frame pose in this pose's local frame
func (p Pose) Relative(world Pose) Pose {
	inv := p.Rotation.Inverse()
	return Pose{
		Position: inv.Rotate(world.Position.Sub(p.Position)),
		Rotation: inv.Mul(world.Rotation).Normalize(),
	}
}
