package event

import (
	"reflect"
	"strings"
	"sync"
)

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
	registryOnce  sync.Once
)

// RegisterType maps a wire name to an EventType and its payload struct type
// Pass nil if the event has no payload
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a wire name, case-insensitively
func GetEventType(name string) (EventType, bool) {
	InitRegistry()
	if et, ok := nameToType[name]; ok {
		return et, true
	}
	for n, et := range nameToType {
		if strings.EqualFold(n, name) {
			return et, true
		}
	}
	return EventNone, false
}

// GetEventName returns the wire name for an EventType
func GetEventName(et EventType) string {
	InitRegistry()
	return typeToName[et]
}

// NewPayloadStruct returns a pointer to a zero-value payload for the event type
// Returns nil if the event carries no payload
func NewPayloadStruct(et EventType) any {
	InitRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

func (t EventType) String() string {
	if name := GetEventName(t); name != "" {
		return name
	}
	return "unknown"
}

// InitRegistry populates the registry with all game events; safe to call repeatedly
func InitRegistry() {
	registryOnce.Do(func() {
		// Track
		RegisterType("segment_spawned", EventSegmentSpawned, &SegmentPayload{})
		RegisterType("segment_recycled", EventSegmentRecycled, &SegmentPayload{})
		RegisterType("difficulty_changed", EventDifficultyChanged, &DifficultyPayload{})
		RegisterType("obstacle_spawning_started", EventObstacleSpawningStarted, &DifficultyPayload{})

		// Runner
		RegisterType("turn_zone", EventTurnZone, &TurnZonePayload{})
		RegisterType("turn_complete", EventTurnComplete, &TurnZonePayload{})
		RegisterType("jump", EventJump, nil)
		RegisterType("slide_start", EventSlideStart, nil)
		RegisterType("slide_end", EventSlideEnd, nil)
		RegisterType("lane_change", EventLaneChange, &LanePayload{})

		// Items
		RegisterType("coin_collected", EventCoinCollected, &CoinPayload{})
		RegisterType("obstacle_hit", EventObstacleHit, &ObstacleHitPayload{})

		// Session
		RegisterType("game_over", EventGameOver, &GameOverPayload{})
		RegisterType("game_pause", EventGamePause, nil)
		RegisterType("game_restart", EventGameRestart, nil)
	})
}
