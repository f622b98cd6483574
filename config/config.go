// Package config holds every tunable of a run, loaded from TOML over the reference tuning
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid")

// Config is the full configuration surface of a run
type Config struct {
	Track      TrackConfig      `toml:"track" json:"track"`
	Obstacles  ObstacleConfig   `toml:"obstacles" json:"obstacles"`
	Coins      CoinConfig       `toml:"coins" json:"coins"`
	Difficulty DifficultyConfig `toml:"difficulty" json:"difficulty"`
	Player     PlayerConfig     `toml:"player" json:"player"`
	Session    SessionConfig    `toml:"session" json:"session"`
	Render     RenderConfig     `toml:"render" json:"render"`
	Audio      AudioConfig      `toml:"audio" json:"audio"`
	Stream     StreamConfig     `toml:"stream" json:"stream"`
}

// TurnWeights are relative odds for the weighted turn draw; zero disables a kind
type TurnWeights struct {
	Left     int `toml:"left" json:"left" jsonschema:"minimum=0"`
	Right    int `toml:"right" json:"right" jsonschema:"minimum=0"`
	Straight int `toml:"straight" json:"straight" jsonschema:"minimum=0"`
}

// Of returns the weight of kind
func (w TurnWeights) Of(kind core.TurnKind) int {
	switch kind {
	case core.TurnLeft:
		return w.Left
	case core.TurnRight:
		return w.Right
	default:
		return w.Straight
	}
}

type TrackConfig struct {
	PlatformPoolSize  int             `toml:"platform_pool_size" json:"platform_pool_size" jsonschema:"minimum=0"`
	PlatformsAhead    int             `toml:"platforms_ahead" json:"platforms_ahead" jsonschema:"minimum=1"`
	PassThreshold     float64         `toml:"pass_threshold" json:"pass_threshold"`
	SegmentLength     float64         `toml:"segment_length" json:"segment_length"`
	TriggerInset      float64         `toml:"trigger_inset" json:"trigger_inset"`
	TriggerRadius     float64         `toml:"trigger_radius" json:"trigger_radius"`
	Weights           TurnWeights     `toml:"weights" json:"weights"`
	OpeningTurns      []core.TurnKind `toml:"opening_turns" json:"opening_turns"`
	MaxSameTurnStreak int             `toml:"max_same_turn_streak" json:"max_same_turn_streak" jsonschema:"minimum=1"`
}

// ObstaclePrototype describes one obstacle shape and its collision span above the track
type ObstaclePrototype struct {
	ID     string  `toml:"id" json:"id"`
	Radius float64 `toml:"radius" json:"radius"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Top    float64 `toml:"top" json:"top"`
	Motion string  `toml:"motion" json:"motion"`
}

type ObstacleConfig struct {
	PoolSize          int                 `toml:"pool_size" json:"pool_size" jsonschema:"minimum=0"`
	MinSpacing        float64             `toml:"min_spacing" json:"min_spacing"`
	Height            float64             `toml:"height" json:"height"`
	PlacementAttempts int                 `toml:"placement_attempts" json:"placement_attempts" jsonschema:"minimum=1"`
	Prototypes        []ObstaclePrototype `toml:"prototypes" json:"prototypes"`
}

type CoinConfig struct {
	PoolSize          int     `toml:"pool_size" json:"pool_size" jsonschema:"minimum=0"`
	SpawnChance       float64 `toml:"spawn_chance" json:"spawn_chance" jsonschema:"minimum=0,maximum=1"`
	LineChance        float64 `toml:"line_chance" json:"line_chance" jsonschema:"minimum=0,maximum=1"`
	MaxPerPlatform    int     `toml:"max_per_platform" json:"max_per_platform" jsonschema:"minimum=1"`
	MinSpacing        float64 `toml:"min_spacing" json:"min_spacing"`
	Height            float64 `toml:"height" json:"height"`
	PerLine           int     `toml:"per_line" json:"per_line" jsonschema:"minimum=1"`
	LineSpacing       float64 `toml:"line_spacing" json:"line_spacing"`
	Value             int     `toml:"value" json:"value"`
	PickupRadius      float64 `toml:"pickup_radius" json:"pickup_radius"`
	PlacementAttempts int     `toml:"placement_attempts" json:"placement_attempts" jsonschema:"minimum=1"`
}

// DifficultyConfig times are in seconds
type DifficultyConfig struct {
	InitialDelay   float64 `toml:"initial_delay" json:"initial_delay"`
	RampInterval   float64 `toml:"ramp_interval" json:"ramp_interval"`
	StartObstacles int     `toml:"start_obstacles" json:"start_obstacles" jsonschema:"minimum=0"`
	MaxObstacles   int     `toml:"max_obstacles" json:"max_obstacles" jsonschema:"minimum=0"`
}

type PlayerConfig struct {
	InitialSpeed    float64 `toml:"initial_speed" json:"initial_speed"`
	MaxSpeed        float64 `toml:"max_speed" json:"max_speed"`
	SpeedIncrease   float64 `toml:"speed_increase" json:"speed_increase"`
	SpeedInterval   float64 `toml:"speed_interval" json:"speed_interval"`
	LaneDistance    float64 `toml:"lane_distance" json:"lane_distance"`
	LaneChangeSpeed float64 `toml:"lane_change_speed" json:"lane_change_speed"`
	JumpHeight      float64 `toml:"jump_height" json:"jump_height"`
	Gravity         float64 `toml:"gravity" json:"gravity"`
	Height          float64 `toml:"height" json:"height"`
	SlideHeight     float64 `toml:"slide_height" json:"slide_height"`
	SlideSeconds    float64 `toml:"slide_seconds" json:"slide_seconds"`
	Radius          float64 `toml:"radius" json:"radius"`
	TurnSpeed       float64 `toml:"turn_speed" json:"turn_speed"`
	TurnSnapAngle   float64 `toml:"turn_snap_angle" json:"turn_snap_angle"`
}

type SessionConfig struct {
	Seed             string `toml:"seed" json:"seed"`
	FreezeOnGameOver bool   `toml:"freeze_on_game_over" json:"freeze_on_game_over"`
	Autopilot        bool   `toml:"autopilot" json:"autopilot"`
}

type RenderConfig struct {
	Scale  float64 `toml:"scale" json:"scale"`
	Behind int     `toml:"behind" json:"behind"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled" json:"enabled"`
	Volume  float64 `toml:"volume" json:"volume" jsonschema:"minimum=0,maximum=1"`
}

type StreamConfig struct {
	Addr         string `toml:"addr" json:"addr"`
	PublishEvery int    `toml:"publish_every" json:"publish_every" jsonschema:"minimum=1"`
	SendBuffer   int    `toml:"send_buffer" json:"send_buffer" jsonschema:"minimum=1"`
}

// Default returns the reference tuning
func Default() *Config {
	opening := make([]core.TurnKind, 0, len(parameter.OpeningTurns))
	for _, s := range parameter.OpeningTurns {
		k, err := core.ParseTurnKind(s)
		if err != nil {
			panic(fmt.Sprintf("config: bad opening turn %q", s))
		}
		opening = append(opening, k)
	}

	return &Config{
		Track: TrackConfig{
			PlatformPoolSize: parameter.PlatformPoolSize,
			PlatformsAhead:   parameter.PlatformsAhead,
			PassThreshold:    parameter.PassThreshold,
			SegmentLength:    parameter.SegmentLength,
			TriggerInset:     parameter.TurnTriggerInset,
			TriggerRadius:    parameter.TurnTriggerRadius,
			Weights: TurnWeights{
				Left:     parameter.WeightLeft,
				Right:    parameter.WeightRight,
				Straight: parameter.WeightStraight,
			},
			OpeningTurns:      opening,
			MaxSameTurnStreak: parameter.MaxSameTurnStreak,
		},
		Obstacles: ObstacleConfig{
			PoolSize:          parameter.ObstaclePoolSize,
			MinSpacing:        parameter.MinObstacleSpacing,
			Height:            parameter.ObstacleHeight,
			PlacementAttempts: parameter.PlacementAttempts,
			Prototypes: []ObstaclePrototype{
				{ID: "barrier", Radius: parameter.ObstacleRadius, Bottom: 0, Top: parameter.BarrierTop},
				{ID: "beam", Radius: parameter.ObstacleRadius, Bottom: parameter.BeamBottom, Top: parameter.BeamTop, Motion: "swing"},
				{ID: "block", Radius: parameter.ObstacleRadius, Bottom: 0, Top: parameter.BlockTop, Motion: "spin"},
			},
		},
		Coins: CoinConfig{
			PoolSize:          parameter.CoinPoolSize,
			SpawnChance:       parameter.CoinSpawnChance,
			LineChance:        parameter.CoinLineChance,
			MaxPerPlatform:    parameter.MaxCoinsPerPlatform,
			MinSpacing:        parameter.MinCoinSpacing,
			Height:            parameter.CoinHeight,
			PerLine:           parameter.CoinsPerLine,
			LineSpacing:       parameter.CoinLineSpacing,
			Value:             parameter.CoinValue,
			PickupRadius:      parameter.CoinPickupRadius,
			PlacementAttempts: parameter.PlacementAttempts,
		},
		Difficulty: DifficultyConfig{
			InitialDelay:   parameter.InitialObstacleDelay,
			RampInterval:   parameter.DifficultyRampInterval,
			StartObstacles: parameter.StartObstacleCount,
			MaxObstacles:   parameter.MaxObstacleCount,
		},
		Player: PlayerConfig{
			InitialSpeed:    parameter.InitialRunSpeed,
			MaxSpeed:        parameter.MaxRunSpeed,
			SpeedIncrease:   parameter.SpeedIncrease,
			SpeedInterval:   parameter.SpeedIncreaseInterval,
			LaneDistance:    parameter.LaneDistance,
			LaneChangeSpeed: parameter.LaneChangeSpeed,
			JumpHeight:      parameter.JumpHeight,
			Gravity:         parameter.Gravity,
			Height:          parameter.RunnerHeight,
			SlideHeight:     parameter.SlideHeight,
			SlideSeconds:    parameter.SlideDuration.Seconds(),
			Radius:          parameter.RunnerRadius,
			TurnSpeed:       parameter.TurnSpeed,
			TurnSnapAngle:   parameter.TurnSnapAngle,
		},
		Session: SessionConfig{
			Seed:             parameter.DefaultSeed,
			FreezeOnGameOver: parameter.FreezeOnGameOver,
		},
		Render: RenderConfig{
			Scale:  parameter.ViewScale,
			Behind: parameter.ViewBehind,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  parameter.AudioVolume,
		},
		Stream: StreamConfig{
			PublishEvery: parameter.StreamPublishEvery,
			SendBuffer:   parameter.StreamSendBuffer,
		},
	}
}

// Load decodes path over the defaults and validates the result
// Keys absent from the file keep their default values
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it names an existing file, otherwise returns defaults
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Write encodes cfg as TOML to path
func Write(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}
