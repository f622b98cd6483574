package input

import (
	"log"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/Mefin-SR/FlowtrixGame/player"
)

// Controls are the session commands a key can trigger
type Controls interface {
	TogglePause()
	Restart() error
}

// Handler turns key events into intents for the next tick and session commands
// HandleEvent runs on the input goroutine; Take runs on the tick goroutine
type Handler struct {
	table    *KeyTable
	controls Controls
	logger   *log.Logger

	// mute toggles audio; nil when audio is off
	mute func() bool

	pending atomic.Uint32
}

// NewHandler creates a handler; a nil table uses the default bindings
func NewHandler(table *KeyTable, controls Controls, logger *log.Logger) *Handler {
	if table == nil {
		table = DefaultKeyTable()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		table:    table,
		controls: controls,
		logger:   logger,
	}
}

// SetMute installs the mute toggle
func (h *Handler) SetMute(fn func() bool) {
	h.mute = fn
}

// HandleEvent processes a tcell event and returns false if the game should exit
func (h *Handler) HandleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}

	action := h.table.Lookup(key)
	switch action {
	case ActionQuit:
		return false
	case ActionPause:
		h.controls.TogglePause()
	case ActionRestart:
		h.pending.Store(0)
		if err := h.controls.Restart(); err != nil {
			h.logger.Printf("restart failed: %v", err)
		}
	case ActionMute:
		if h.mute != nil {
			h.logger.Printf("audio muted: %v", h.mute())
		}
	default:
		if intent := action.Intent(); intent != player.IntentNone {
			h.add(intent)
		}
	}
	return true
}

func (h *Handler) add(intent player.Intent) {
	for {
		old := h.pending.Load()
		if h.pending.CompareAndSwap(old, old|uint32(intent)) {
			return
		}
	}
}

// Take returns and clears the intents gathered since the last tick
func (h *Handler) Take() player.Intent {
	return player.Intent(h.pending.Swap(0))
}

// Pending returns the gathered intents without clearing them
func (h *Handler) Pending() player.Intent {
	return player.Intent(h.pending.Load())
}
