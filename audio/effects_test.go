package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns every sample
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	for _, wave := range []Wave{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		samples := drain(NewTone(440, 880, 100*time.Millisecond, wave, testRate))
		if len(samples) != testRate.N(100*time.Millisecond) {
			t.Errorf("wave %d: %d samples, want %d", wave, len(samples), testRate.N(100*time.Millisecond))
		}
		for i, s := range samples {
			if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
				t.Fatalf("wave %d: sample %d = %v", wave, i, s)
			}
		}
	}
}

func TestToneSquareValues(t *testing.T) {
	for i, s := range drain(NewTone(220, 220, 20*time.Millisecond, WaveSquare, testRate)) {
		if s[0] != 1 && s[0] != -1 {
			t.Fatalf("sample %d = %f", i, s[0])
		}
	}
}

func TestToneNoiseIsReproducible(t *testing.T) {
	a := drain(NewTone(0, 0, 10*time.Millisecond, WaveNoise, testRate))
	b := drain(NewTone(0, 0, 10*time.Millisecond, WaveNoise, testRate))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs", i)
		}
	}
}

func TestShapeRampsInAndOut(t *testing.T) {
	d := 100 * time.Millisecond
	samples := drain(NewShape(NewTone(0, 0, d, WaveSquare, testRate), d, 10*time.Millisecond, 10*time.Millisecond, testRate))

	if samples[0][0] != 0 {
		t.Errorf("first sample = %f, want silent start", samples[0][0])
	}
	mid := samples[len(samples)/2][0]
	if math.Abs(mid) != 1 {
		t.Errorf("sustain sample = %f, want full scale", mid)
	}
	last := samples[len(samples)-1][0]
	if math.Abs(last) > 0.01 {
		t.Errorf("last sample = %f, want faded out", last)
	}
}

func TestCuesHaveTheirDuration(t *testing.T) {
	for c := Cue(0); c < cueCount; c++ {
		s := NewCue(c, 1, testRate)
		if s == nil {
			t.Fatalf("%s: nil streamer", c)
		}
		got := len(drain(s))
		want := testRate.N(c.Duration())
		// Seq of two shaped notes may round each note separately
		if got < want-2 || got > want+2 {
			t.Errorf("%s: %d samples, want %d", c, got, want)
		}
	}
	if NewCue(cueCount, 1, testRate) != nil {
		t.Error("unknown cue built a streamer")
	}
}

func TestCueVolumeZeroIsSilent(t *testing.T) {
	for _, s := range drain(NewCue(CueJump, 0, testRate)) {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("sample %v at zero volume", s)
		}
	}
}
