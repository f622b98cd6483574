package track

import (
	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
)

// Rand is the subset of math/rand the generator draws from
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// TurnSequencer picks turn kinds so no curved kind repeats more than the allowed streak
// Straight segments never count against the streak
type TurnSequencer struct {
	weights   config.TurnWeights
	maxStreak int
	rng       Rand

	last    core.TurnKind
	hasLast bool
	streak  int
}

// NewTurnSequencer creates a sequencer with no history
func NewTurnSequencer(weights config.TurnWeights, maxStreak int, rng Rand) *TurnSequencer {
	return &TurnSequencer{
		weights:   weights,
		maxStreak: maxStreak,
		rng:       rng,
	}
}

// Choose proposes the next kind; forced overrides the weighted draw but not the streak rule
// Nothing is recorded until Commit
func (s *TurnSequencer) Choose(forced *core.TurnKind) core.TurnKind {
	var kind core.TurnKind
	if forced != nil {
		kind = *forced
	} else {
		kind = s.draw()
	}

	if s.hasLast && kind == s.last && kind.Curved() && s.streak >= s.maxStreak {
		kind = s.other(kind)
	}
	return kind
}

// Commit records kind as emitted and updates the repeat counter
func (s *TurnSequencer) Commit(kind core.TurnKind) {
	if s.hasLast && kind == s.last {
		s.streak++
	} else {
		s.streak = 1
	}
	s.last = kind
	s.hasLast = true
}

// Last returns the last committed kind and whether one exists
func (s *TurnSequencer) Last() (core.TurnKind, bool) {
	return s.last, s.hasLast
}

// Streak returns the length of the current run of the last kind
func (s *TurnSequencer) Streak() int {
	return s.streak
}

func (s *TurnSequencer) draw() core.TurnKind {
	total := 0
	for _, k := range core.TurnKinds {
		total += s.weights.Of(k)
	}
	if total <= 0 {
		return core.TurnStraight
	}
	r := s.rng.Intn(total)
	for _, k := range core.TurnKinds {
		w := s.weights.Of(k)
		if r < w {
			return k
		}
		r -= w
	}
	return core.TurnKinds[len(core.TurnKinds)-1]
}

// other picks uniformly among the enabled kinds different from avoid
// With nothing else enabled the streak cannot be broken and avoid is kept
func (s *TurnSequencer) other(avoid core.TurnKind) core.TurnKind {
	candidates := make([]core.TurnKind, 0, len(core.TurnKinds)-1)
	for _, k := range core.TurnKinds {
		if k != avoid && s.weights.Of(k) > 0 {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return avoid
	}
	return candidates[s.rng.Intn(len(candidates))]
}
