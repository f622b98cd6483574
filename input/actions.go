// Package input maps terminal key events to runner intents and session commands
package input

import "github.com/Mefin-SR/FlowtrixGame/player"

// Action is what a bound key does
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionJump
	ActionSlide
	ActionPause
	ActionRestart
	ActionMute
	ActionQuit
)

// actionRegistry maps keymap action names to actions
// "none" unbinds a key when merged over the defaults
var actionRegistry = map[string]Action{
	"none":    ActionNone,
	"left":    ActionLeft,
	"right":   ActionRight,
	"jump":    ActionJump,
	"slide":   ActionSlide,
	"pause":   ActionPause,
	"restart": ActionRestart,
	"mute":    ActionMute,
	"quit":    ActionQuit,
}

// ActionByName resolves a keymap action name
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

func (a Action) String() string {
	for name, v := range actionRegistry {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// Intent returns the runner intent of a movement action, IntentNone otherwise
func (a Action) Intent() player.Intent {
	switch a {
	case ActionLeft:
		return player.IntentLeft
	case ActionRight:
		return player.IntentRight
	case ActionJump:
		return player.IntentJump
	case ActionSlide:
		return player.IntentSlide
	default:
		return player.IntentNone
	}
}
