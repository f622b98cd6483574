package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/Mefin-SR/FlowtrixGame/parameter"
)

// Wave is an oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length oscillator with an optional linear pitch glide
type tone struct {
	from, to float64
	wave     Wave
	rate     beep.SampleRate
	length   int
	pos      int
	phase    float64
	noise    uint32
}

// NewTone streams duration of wave gliding from one frequency to another
func NewTone(from, to float64, duration time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{
		from:   from,
		to:     to,
		wave:   wave,
		rate:   rate,
		length: rate.N(duration),
		noise:  0x9e3779b9,
	}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if o.pos >= o.length {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.length {
			return i, true
		}
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (o.phase - 0.5)
		case WaveNoise:
			// xorshift keeps cues reproducible
			o.noise ^= o.noise << 13
			o.noise ^= o.noise >> 17
			o.noise ^= o.noise << 5
			v = float64(o.noise)/float64(math.MaxUint32)*2 - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		freq := o.from + (o.to-o.from)*float64(o.pos)/float64(o.length)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *tone) Err() error {
	return nil
}

// shape applies a linear attack and release over a fixed length
type shape struct {
	streamer beep.Streamer
	pos      int
	length   int
	attack   int
	release  int
}

// NewShape wraps s with an attack/release envelope
func NewShape(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &shape{
		streamer: s,
		length:   rate.N(duration),
		attack:   rate.N(attack),
		release:  rate.N(release),
	}
}

func (e *shape) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.length {
			return i, i > 0
		}
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.length - e.pos; e.release > 0 && left < e.release {
			gain = math.Min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *shape) Err() error {
	return e.streamer.Err()
}

// newVolume scales linearly; zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue identifies a sound effect
type Cue int

const (
	CueCoin Cue = iota
	CueJump
	CueSlide
	CueTurn
	CueCrash
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueCoin:
		return "coin"
	case CueJump:
		return "jump"
	case CueSlide:
		return "slide"
	case CueTurn:
		return "turn"
	case CueCrash:
		return "crash"
	}
	return "unknown"
}

// Duration returns the length of a cue
func (c Cue) Duration() time.Duration {
	switch c {
	case CueCoin:
		return parameter.CoinCueNote1 + parameter.CoinCueNote2
	case CueJump:
		return parameter.JumpCueDuration
	case CueSlide:
		return parameter.SlideCueDuration
	case CueTurn:
		return parameter.TurnCueDuration
	case CueCrash:
		return parameter.CrashCueDuration
	}
	return 0
}

// NewCue builds the streamer for cue at volume; unknown cues return nil
func NewCue(cue Cue, volume float64, rate beep.SampleRate) beep.Streamer {
	const attack = 5 * time.Millisecond
	var s beep.Streamer
	switch cue {
	case CueCoin:
		// B5 then E6
		n1 := NewShape(NewTone(987.77, 987.77, parameter.CoinCueNote1, WaveSquare, rate), parameter.CoinCueNote1, attack, 40*time.Millisecond, rate)
		n2 := NewShape(NewTone(1318.51, 1318.51, parameter.CoinCueNote2, WaveSquare, rate), parameter.CoinCueNote2, attack, 150*time.Millisecond, rate)
		s = newVolume(beep.Seq(n1, n2), 0.4)
	case CueJump:
		s = NewShape(NewTone(330, 660, parameter.JumpCueDuration, WaveSine, rate), parameter.JumpCueDuration, attack, 80*time.Millisecond, rate)
	case CueSlide:
		s = NewShape(NewTone(220, 110, parameter.SlideCueDuration, WaveSaw, rate), parameter.SlideCueDuration, attack, 150*time.Millisecond, rate)
		s = newVolume(s, 0.5)
	case CueTurn:
		s = NewShape(NewTone(0, 0, parameter.TurnCueDuration, WaveNoise, rate), parameter.TurnCueDuration, 60*time.Millisecond, 120*time.Millisecond, rate)
		s = newVolume(s, 0.3)
	case CueCrash:
		noise := NewShape(NewTone(0, 0, parameter.CrashCueDuration, WaveNoise, rate), parameter.CrashCueDuration, attack, 500*time.Millisecond, rate)
		rumble := NewShape(NewTone(90, 40, parameter.CrashCueDuration, WaveSine, rate), parameter.CrashCueDuration, attack, 500*time.Millisecond, rate)
		s = beep.Mix(newVolume(noise, 0.5), newVolume(rumble, 0.7))
	default:
		return nil
	}
	return newVolume(s, volume)
}
