package input

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Mefin-SR/FlowtrixGame/player"
)

type mockControls struct {
	pauses   int
	restarts int
	err      error
}

func (m *mockControls) TogglePause() {
	m.pauses++
}

func (m *mockControls) Restart() error {
	m.restarts++
	return m.err
}

func newTestHandler(controls Controls) *Handler {
	return NewHandler(nil, controls, log.New(io.Discard, "", 0))
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestMovementKeysGatherIntents(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want player.Intent
	}{
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), player.IntentLeft},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), player.IntentRight},
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), player.IntentJump},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), player.IntentSlide},
		{"a", runeKey('a'), player.IntentLeft},
		{"d", runeKey('d'), player.IntentRight},
		{"w", runeKey('w'), player.IntentJump},
		{"s", runeKey('s'), player.IntentSlide},
		{"space", runeKey(' '), player.IntentJump},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockControls{})
			if !h.HandleEvent(tt.ev) {
				t.Fatal("movement key requested exit")
			}
			if got := h.Take(); got != tt.want {
				t.Fatalf("Take() = %s, want %s", got, tt.want)
			}
			if got := h.Take(); got != player.IntentNone {
				t.Fatalf("second Take() = %s, want none", got)
			}
		})
	}
}

func TestIntentsAccumulateUntilTaken(t *testing.T) {
	h := newTestHandler(&mockControls{})
	h.HandleEvent(runeKey('a'))
	h.HandleEvent(runeKey('w'))
	if got := h.Pending(); got != player.IntentLeft|player.IntentJump {
		t.Fatalf("Pending() = %s", got)
	}
	if got := h.Take(); !got.Has(player.IntentLeft) || !got.Has(player.IntentJump) {
		t.Fatalf("Take() = %s", got)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		runeKey('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		if newTestHandler(&mockControls{}).HandleEvent(ev) {
			t.Errorf("%v did not request exit", ev.Name())
		}
	}
}

func TestSessionCommands(t *testing.T) {
	controls := &mockControls{}
	h := newTestHandler(controls)

	h.HandleEvent(runeKey('p'))
	h.HandleEvent(runeKey('p'))
	if controls.pauses != 2 {
		t.Fatalf("pauses = %d, want 2", controls.pauses)
	}

	h.HandleEvent(runeKey('d'))
	h.HandleEvent(runeKey('r'))
	if controls.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", controls.restarts)
	}
	if got := h.Take(); got != player.IntentNone {
		t.Fatalf("restart kept stale intent %s", got)
	}

	controls.err = errors.New("boom")
	if !h.HandleEvent(runeKey('r')) {
		t.Fatal("failed restart requested exit")
	}
}

func TestMuteToggle(t *testing.T) {
	h := newTestHandler(&mockControls{})
	h.HandleEvent(runeKey('m')) // no toggle installed

	muted := false
	h.SetMute(func() bool {
		muted = !muted
		return muted
	})
	h.HandleEvent(runeKey('m'))
	if !muted {
		t.Fatal("mute key did not toggle")
	}
}

func TestNonKeyEventsIgnored(t *testing.T) {
	h := newTestHandler(&mockControls{})
	if !h.HandleEvent(tcell.NewEventResize(80, 24)) {
		t.Fatal("resize requested exit")
	}
	if h.Pending() != player.IntentNone {
		t.Fatal("resize produced an intent")
	}
}

func TestLoadKeyConfigOverrides(t *testing.T) {
	data := []byte(`
[keys]
Up = "slide"

[runes]
space = "none"
x = "jump"
`)
	override, err := LoadKeyConfig(data)
	if err != nil {
		t.Fatalf("LoadKeyConfig: %v", err)
	}
	kt := MergeKeyTable(DefaultKeyTable(), override)

	if kt.SpecialKeys[tcell.KeyUp] != ActionSlide {
		t.Errorf("up = %s, want slide", kt.SpecialKeys[tcell.KeyUp])
	}
	if _, ok := kt.Runes[' ']; ok {
		t.Error("space still bound after none")
	}
	if kt.Runes['x'] != ActionJump {
		t.Errorf("x = %s, want jump", kt.Runes['x'])
	}
	// defaults untouched
	if DefaultKeyTable().SpecialKeys[tcell.KeyUp] != ActionJump {
		t.Error("merge mutated the defaults")
	}
	if kt.Runes['a'] != ActionLeft {
		t.Error("unrelated default lost")
	}
}

func TestLoadKeyConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown action", "[runes]\nx = \"fly\"\n", "unknown action"},
		{"unknown key", "[keys]\nf13 = \"jump\"\n", "unknown key name"},
		{"long rune", "[runes]\nxy = \"jump\"\n", "invalid rune key"},
		{"unknown section", "[mouse]\nx = \"jump\"\n", "unknown section"},
		{"bad toml", "[runes\n", "keymap parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadKeyConfig([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
