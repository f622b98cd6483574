// Package player moves the runner: forward motion, lanes, jump, slide and turns
package player

// Intent is the set of discrete inputs for one tick
type Intent uint8

const (
	IntentLeft Intent = 1 << iota
	IntentRight
	IntentJump
	IntentSlide

	IntentNone Intent = 0
)

// Has reports whether every flag in f is set
func (i Intent) Has(f Intent) bool {
	return i&f == f && f != 0
}

func (i Intent) String() string {
	if i == IntentNone {
		return "none"
	}
	s := ""
	for _, f := range []struct {
		flag Intent
		name string
	}{
		{IntentLeft, "left"},
		{IntentRight, "right"},
		{IntentJump, "jump"},
		{IntentSlide, "slide"},
	} {
		if i.Has(f.flag) {
			if s != "" {
				s += "+"
			}
			s += f.name
		}
	}
	return s
}
