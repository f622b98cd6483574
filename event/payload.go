package event

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/core"
)

// SegmentPayload describes a platform entering or leaving the window
type SegmentPayload struct {
	Index     int           `msgpack:"index" toml:"index"`
	Prototype string        `msgpack:"prototype" toml:"prototype"`
	Kind      core.TurnKind `msgpack:"kind" toml:"kind"`
}

// DifficultyPayload carries the current obstacle ceiling
type DifficultyPayload struct {
	Level int    `msgpack:"level" toml:"level"`
	Phase string `msgpack:"phase" toml:"phase"`
}

// TurnZonePayload identifies the curved segment whose trigger was entered
// Anchor and Yaw are the world position and heading of the segment's exit
type TurnZonePayload struct {
	Kind    core.TurnKind `msgpack:"kind" toml:"kind"`
	Segment core.Handle   `msgpack:"segment" toml:"segment"`
	Anchor  mgl64.Vec3    `msgpack:"anchor" toml:"anchor"`
	Yaw     float64       `msgpack:"yaw" toml:"yaw"`
}

// LanePayload carries the runner's new target lane
type LanePayload struct {
	From int `msgpack:"from" toml:"from"`
	To   int `msgpack:"to" toml:"to"`
}

// CoinPayload reports a collected coin and the running score
type CoinPayload struct {
	Value int `msgpack:"value" toml:"value"`
	Score int `msgpack:"score" toml:"score"`
}

// ObstacleHitPayload names the obstacle prototype the runner hit
type ObstacleHitPayload struct {
	Prototype string `msgpack:"prototype" toml:"prototype"`
}

// GameOverPayload summarizes the finished run
type GameOverPayload struct {
	Score    int     `msgpack:"score" toml:"score"`
	Distance float64 `msgpack:"distance" toml:"distance"`
	Cause    string  `msgpack:"cause" toml:"cause"`
}
