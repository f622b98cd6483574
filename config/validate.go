package config

import (
	"errors"
	"fmt"

	"github.com/Mefin-SR/FlowtrixGame/parameter"
)

// Validate reports every out-of-range field, each wrapped with ErrInvalid
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	t := c.Track
	check(t.PlatformPoolSize >= 0, "track.platform_pool_size %d is negative", t.PlatformPoolSize)
	check(t.PlatformsAhead >= 1, "track.platforms_ahead %d must be at least 1", t.PlatformsAhead)
	check(t.PassThreshold > 0, "track.pass_threshold must be positive")
	check(t.SegmentLength > 0, "track.segment_length must be positive")
	check(t.PassThreshold < t.SegmentLength, "track.pass_threshold %.2f must be shorter than segment_length %.2f", t.PassThreshold, t.SegmentLength)
	check(t.TriggerInset >= 0 && t.TriggerInset < t.SegmentLength, "track.trigger_inset out of range")
	check(t.TriggerRadius > 0, "track.trigger_radius must be positive")
	check(t.Weights.Left >= 0 && t.Weights.Right >= 0 && t.Weights.Straight >= 0, "track.weights must not be negative")
	check(t.Weights.Left+t.Weights.Right+t.Weights.Straight > 0, "track.weights must enable at least one kind")
	check(t.MaxSameTurnStreak >= 1, "track.max_same_turn_streak %d must be at least 1", t.MaxSameTurnStreak)

	o := c.Obstacles
	check(o.PoolSize >= 0, "obstacles.pool_size is negative")
	check(o.MinSpacing >= 0, "obstacles.min_spacing is negative")
	check(o.PlacementAttempts >= 1, "obstacles.placement_attempts must be at least 1")
	check(len(o.Prototypes) > 0, "obstacles.prototypes is empty")
	seen := make(map[string]bool, len(o.Prototypes))
	for _, p := range o.Prototypes {
		check(p.ID != "", "obstacles.prototypes entry without id")
		check(!seen[p.ID], "obstacles.prototypes duplicate id %q", p.ID)
		seen[p.ID] = true
		check(p.Radius > 0, "obstacle %q radius must be positive", p.ID)
		check(p.Top > p.Bottom, "obstacle %q top must be above bottom", p.ID)
		check(p.Motion == "" || p.Motion == "spin" || p.Motion == "swing", "obstacle %q motion %q unknown", p.ID, p.Motion)
	}

	k := c.Coins
	check(k.PoolSize >= 0, "coins.pool_size is negative")
	check(k.SpawnChance >= 0 && k.SpawnChance <= 1, "coins.spawn_chance %.2f out of [0,1]", k.SpawnChance)
	check(k.LineChance >= 0 && k.LineChance <= 1, "coins.line_chance %.2f out of [0,1]", k.LineChance)
	check(k.MaxPerPlatform >= 1, "coins.max_per_platform must be at least 1")
	check(k.MinSpacing >= 0, "coins.min_spacing is negative")
	check(k.PerLine >= 1, "coins.per_line must be at least 1")
	check(k.LineSpacing > 0, "coins.line_spacing must be positive")
	check(k.PickupRadius > 0, "coins.pickup_radius must be positive")
	check(k.PlacementAttempts >= 1, "coins.placement_attempts must be at least 1")
	lineLength := float64(k.PerLine)*k.LineSpacing + parameter.CoinLineStartMargin + parameter.CoinLineEndMargin
	check(lineLength <= t.SegmentLength, "coins.per_line %d at line_spacing %.2f needs %.2f, longer than track.segment_length %.2f", k.PerLine, k.LineSpacing, lineLength, t.SegmentLength)

	d := c.Difficulty
	check(d.InitialDelay >= 0, "difficulty.initial_delay is negative")
	check(d.RampInterval > 0, "difficulty.ramp_interval must be positive")
	check(d.StartObstacles >= 0, "difficulty.start_obstacles is negative")
	check(d.MaxObstacles >= d.StartObstacles, "difficulty.max_obstacles %d below start_obstacles %d", d.MaxObstacles, d.StartObstacles)

	p := c.Player
	check(p.InitialSpeed > 0 && p.MaxSpeed >= p.InitialSpeed, "player speed range invalid")
	check(p.SpeedInterval > 0, "player.speed_interval must be positive")
	check(p.LaneDistance > 0, "player.lane_distance must be positive")
	check(p.Gravity < 0, "player.gravity must be negative")
	check(p.JumpHeight > 0, "player.jump_height must be positive")
	check(p.SlideHeight > 0 && p.SlideHeight < p.Height, "player.slide_height must be below height")
	check(p.SlideSeconds > 0, "player.slide_seconds must be positive")
	check(p.Radius > 0, "player.radius must be positive")
	check(p.TurnSpeed > 0, "player.turn_speed must be positive")

	check(c.Render.Scale > 0, "render.scale must be positive")
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume out of [0,1]")
	check(c.Stream.PublishEvery >= 1, "stream.publish_every must be at least 1")
	check(c.Stream.SendBuffer >= 1, "stream.send_buffer must be at least 1")

	return errors.Join(errs...)
}
