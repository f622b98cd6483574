package spawn

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Occupancy is the ordered list of local positions claimed on one container during one pass
// It is shared by obstacle and coin placement and discarded afterwards
type Occupancy struct {
	positions []mgl64.Vec3
}

// NewOccupancy creates an empty set
func NewOccupancy() *Occupancy {
	return &Occupancy{}
}

// OccupancyOf collects the local positions of every active child of container
func OccupancyOf(container *scene.Node) *Occupancy {
	occ := &Occupancy{positions: make([]mgl64.Vec3, 0, container.ChildCount())}
	for i := 0; i < container.ChildCount(); i++ {
		if child := container.Child(i); child.Active() {
			occ.positions = append(occ.positions, child.LocalPosition())
		}
	}
	return occ
}

// Clear reports whether pos keeps at least spacing from every claimed position
func (o *Occupancy) Clear(pos mgl64.Vec3, spacing float64) bool {
	for _, p := range o.positions {
		if vmath.Distance(pos, p) < spacing {
			return false
		}
	}
	return true
}

// Claim records pos
func (o *Occupancy) Claim(pos mgl64.Vec3) {
	o.positions = append(o.positions, pos)
}

// Contains reports whether pos was claimed exactly
func (o *Occupancy) Contains(pos mgl64.Vec3) bool {
	for _, p := range o.positions {
		if p == pos {
			return true
		}
	}
	return false
}

// Len returns the number of claimed positions
func (o *Occupancy) Len() int {
	return len(o.positions)
}

// Positions returns a copy of the claimed positions in claim order
func (o *Occupancy) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(o.positions))
	copy(out, o.positions)
	return out
}
