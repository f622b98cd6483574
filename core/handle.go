package core

import "fmt"

// Handle identifies a runtime instance for the lifetime of a session
// Zero is never issued
type Handle uint64

// Tag classifies scene nodes so systems can filter children without name matching
type Tag uint8

const (
	TagNone Tag = iota
	TagPlatform
	TagAnchor
	TagContainer
	TagTrigger
	TagObstacle
	TagCoin
	TagRunner
	TagScope
)

var tagNames = [...]string{
	TagNone:      "none",
	TagPlatform:  "platform",
	TagAnchor:    "anchor",
	TagContainer: "container",
	TagTrigger:   "trigger",
	TagObstacle:  "obstacle",
	TagCoin:      "coin",
	TagRunner:    "runner",
	TagScope:     "scope",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}
