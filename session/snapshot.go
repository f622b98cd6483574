package session

import (
	"github.com/Mefin-SR/FlowtrixGame/scene"
	"github.com/Mefin-SR/FlowtrixGame/track"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Body is the world pose of one placed object
type Body struct {
	ID    uint64  `msgpack:"id"`
	Kind  string  `msgpack:"kind"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Z     float64 `msgpack:"z"`
	Yaw   float64 `msgpack:"yaw"`
	Width float64 `msgpack:"width,omitempty"`
}

// SegmentView is one live platform
type SegmentView struct {
	Index  int     `msgpack:"index"`
	Kind   string  `msgpack:"kind"`
	X      float64 `msgpack:"x"`
	Z      float64 `msgpack:"z"`
	Yaw    float64 `msgpack:"yaw"`
	Length float64 `msgpack:"length"`
}

// Snapshot is the read model of a run consumed by the view, the stream and the sandbox
type Snapshot struct {
	Tick     uint64  `msgpack:"tick"`
	Score    int     `msgpack:"score"`
	Distance float64 `msgpack:"distance"`
	Speed    float64 `msgpack:"speed"`
	Over     bool    `msgpack:"over"`
	Cause    string  `msgpack:"cause,omitempty"`
	Paused   bool    `msgpack:"paused"`

	Phase        string `msgpack:"phase"`
	Ceiling      int    `msgpack:"ceiling"`
	SegmentIndex int    `msgpack:"segment_index"`

	Runner    Body          `msgpack:"runner"`
	Lane      int           `msgpack:"lane"`
	Sliding   bool          `msgpack:"sliding"`
	Segments  []SegmentView `msgpack:"segments"`
	Obstacles []Body        `msgpack:"obstacles"`
	Coins     []Body        `msgpack:"coins"`
}

func bodyOf(n *scene.Node, kind string, width float64) Body {
	pose := n.WorldPose()
	return Body{
		ID:    uint64(n.Handle()),
		Kind:  kind,
		X:     pose.Position[0],
		Y:     pose.Position[1],
		Z:     pose.Position[2],
		Yaw:   vmath.YawOf(pose.Rotation),
		Width: width,
	}
}

func segmentOf(seg *track.Segment) SegmentView {
	return SegmentView{
		Index:  seg.Index,
		Kind:   seg.Kind.String(),
		X:      seg.Start[0],
		Z:      seg.Start[2],
		Yaw:    vmath.YawOf(seg.Node.WorldPose().Rotation),
		Length: seg.Length(),
	}
}
