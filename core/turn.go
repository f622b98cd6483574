package core

import (
	"fmt"
	"strings"
)

// TurnKind is the geometric category of a track segment
type TurnKind uint8

const (
	TurnStraight TurnKind = iota
	TurnLeft
	TurnRight
)

// TurnKinds lists every kind in selection order
var TurnKinds = [...]TurnKind{TurnStraight, TurnLeft, TurnRight}

func (k TurnKind) String() string {
	switch k {
	case TurnStraight:
		return "straight"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return fmt.Sprintf("turn(%d)", uint8(k))
}

// Curved reports whether the segment bends the track heading
func (k TurnKind) Curved() bool {
	return k == TurnLeft || k == TurnRight
}

// ParseTurnKind accepts the lower-case names produced by String
func ParseTurnKind(s string) (TurnKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "straight":
		return TurnStraight, nil
	case "left":
		return TurnLeft, nil
	case "right":
		return TurnRight, nil
	}
	return TurnStraight, fmt.Errorf("unknown turn kind %q", s)
}

// MarshalText implements encoding.TextMarshaler for config files
func (k TurnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for config files
func (k *TurnKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTurnKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
