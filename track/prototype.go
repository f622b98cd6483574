package track

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Child names every platform instance is built with
const (
	EndPointName    = "EndPoint"
	ContainerName   = "Obstacles"
	TurnTriggerName = "TurnTrigger"
)

// Prototype is the template a platform instance is built from
type Prototype struct {
	ID     string
	Kind   core.TurnKind
	Length float64

	// EndAnchor is where the next segment attaches, relative to the platform
	// A nil anchor builds a malformed platform that cannot be placed
	EndAnchor *vmath.Pose

	// TriggerInset places the turn trigger this far before the anchor; curved kinds only
	TriggerInset float64
}

// DefaultPrototypes returns one platform per turn kind
// A curved platform runs Length forward and exits rotated a quarter turn toward its side
func DefaultPrototypes(cfg config.TrackConfig) []Prototype {
	protos := make([]Prototype, 0, len(core.TurnKinds))
	for _, kind := range core.TurnKinds {
		yaw := 0.0
		switch kind {
		case core.TurnLeft:
			yaw = -90
		case core.TurnRight:
			yaw = 90
		}
		anchor := vmath.NewPose(mgl64.Vec3{0, 0, cfg.SegmentLength}, yaw)
		protos = append(protos, Prototype{
			ID:           "platform-" + kind.String(),
			Kind:         kind,
			Length:       cfg.SegmentLength,
			EndAnchor:    &anchor,
			TriggerInset: cfg.TriggerInset,
		})
	}
	return protos
}

// build constructs a platform subtree under parent
func (p Prototype) build(graph *scene.Graph, parent *scene.Node, serial int) *scene.Node {
	root := graph.NewNodeUnder(parent, fmt.Sprintf("%s#%d", p.ID, serial), core.TagPlatform, p.ID)
	if p.EndAnchor != nil {
		end := graph.NewNodeUnder(root, EndPointName, core.TagAnchor, "")
		end.SetLocalPose(*p.EndAnchor)
	}
	graph.NewNodeUnder(root, ContainerName, core.TagContainer, "")
	if p.Kind.Curved() {
		trigger := graph.NewNodeUnder(root, TurnTriggerName, core.TagTrigger, "")
		trigger.SetLocalPosition(mgl64.Vec3{0, 0, p.Length - p.TriggerInset})
	}
	return root
}
