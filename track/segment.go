package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/spawn"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Segment is one placed platform
// Start and Forward are fixed at spawn and stay valid until the segment is recycled
type Segment struct {
	Node      *scene.Node
	End       *scene.Node
	Container *scene.Node
	Trigger   *scene.Node

	Kind      core.TurnKind
	Prototype string
	Start     mgl64.Vec3
	Forward   mgl64.Vec3
	Index     int
}

// Handle returns the platform instance handle
func (s *Segment) Handle() core.Handle {
	return s.Node.Handle()
}

// Length is the straight-line distance from the start to the end anchor
func (s *Segment) Length() float64 {
	return vmath.Distance(s.Start, s.End.WorldPosition())
}

// Progress is the signed distance of point past the start along Forward
func (s *Segment) Progress(point mgl64.Vec3) float64 {
	return vmath.ForwardProgress(s.Start, s.Forward, point)
}

// ExitPose is the world pose the next segment attaches at
func (s *Segment) ExitPose() vmath.Pose {
	return s.End.WorldPose()
}

// Site exposes the segment to the content spawners
func (s *Segment) Site() spawn.Site {
	return spawn.Site{
		Kind:      s.Kind,
		Length:    s.Length(),
		Forward:   s.Forward,
		Container: s.Container,
	}
}
