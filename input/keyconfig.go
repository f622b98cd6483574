package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be bare single-char TOML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// Special key names accepted in the [keys] section
var keyNames = map[string]tcell.Key{
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"enter":     tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backspace": tcell.KeyBackspace2,
	"ctrl-c":    tcell.KeyCtrlC,
	"ctrl-q":    tcell.KeyCtrlQ,
	"ctrl-r":    tcell.KeyCtrlR,
	"ctrl-p":    tcell.KeyCtrlP,
}

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
// Only sections/keys present in the TOML are populated
//
//	[keys]
//	up = "jump"
//	[runes]
//	space = "none"
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw map[string]map[string]string
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}

	kt := &KeyTable{}
	for section, bindings := range raw {
		switch section {
		case "keys":
			keys, err := parseSpecialKeySection(section, bindings)
			if err != nil {
				return nil, err
			}
			kt.SpecialKeys = keys
		case "runes":
			runes, err := parseRuneSection(section, bindings)
			if err != nil {
				return nil, err
			}
			kt.Runes = runes
		default:
			return nil, fmt.Errorf("keymap: unknown section [%s]", section)
		}
	}
	return kt, nil
}

// LoadKeyFile reads a keymap file and merges it over the defaults
func LoadKeyFile(path string) (*KeyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	override, err := LoadKeyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return MergeKeyTable(DefaultKeyTable(), override), nil
}

func parseRuneSection(section string, data map[string]string) (map[rune]Action, error) {
	result := make(map[rune]Action, len(data))
	for keyStr, name := range data {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		action, err := resolveAction(name)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[r] = action
	}
	return result, nil
}

func parseSpecialKeySection(section string, data map[string]string) (map[tcell.Key]Action, error) {
	result := make(map[tcell.Key]Action, len(data))
	for keyStr, name := range data {
		k, ok := keyNames[strings.ToLower(keyStr)]
		if !ok {
			return nil, fmt.Errorf("[%s] unknown key name: %q", section, keyStr)
		}
		action, err := resolveAction(name)
		if err != nil {
			return nil, fmt.Errorf("[%s] key %q: %w", section, keyStr, err)
		}
		result[k] = action
	}
	return result, nil
}

// resolveRune accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, fmt.Errorf("invalid rune key: %q (expected single character or alias)", s)
}

func resolveAction(name string) (Action, error) {
	action, ok := ActionByName(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return ActionNone, fmt.Errorf("unknown action: %q", name)
	}
	return action, nil
}

// MergeKeyTable returns a new KeyTable with base values overridden by non-nil override maps
// Override entries bound to "none" delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	for k, v := range override.SpecialKeys {
		if v == ActionNone {
			delete(result.SpecialKeys, k)
		} else {
			result.SpecialKeys[k] = v
		}
	}
	for r, v := range override.Runes {
		if v == ActionNone {
			delete(result.Runes, r)
		} else {
			result.Runes[r] = v
		}
	}
	return result
}
