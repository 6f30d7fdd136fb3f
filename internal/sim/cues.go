package sim

import "time"

// Waveform is the oscillator shape of a tone.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

func (w Waveform) String() string {
	switch w {
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	case WaveTriangle:
		return "triangle"
	}
	return "sine"
}

// Tone is a single short beep.
type Tone struct {
	Freq     float64 // Hz
	Duration time.Duration
	Wave     Waveform
	Gain     float64
}

// Beeper plays tones. Implementations must return immediately and never
// panic; playback failures are dropped.
type Beeper interface {
	Beep(t Tone)
}

// BeeperFunc adapts a function to the Beeper interface.
type BeeperFunc func(Tone)

func (f BeeperFunc) Beep(t Tone) { f(t) }

type silentBeeper struct{}

func (silentBeeper) Beep(Tone) {}

func tone(freq float64, ms int, wave Waveform, gain float64) Tone {
	return Tone{Freq: freq, Duration: time.Duration(ms) * time.Millisecond, Wave: wave, Gain: gain}
}

// Both tones of a cue start together.
var (
	alertCues = [kindCount][]Tone{
		KindThief:   {tone(880, 60, WaveSquare, 0.03), tone(660, 60, WaveSquare, 0.03)},
		KindFire:    {tone(520, 80, WaveSawtooth, 0.03), tone(430, 80, WaveSawtooth, 0.03)},
		KindMedical: {tone(740, 50, WaveTriangle, 0.03), tone(980, 50, WaveTriangle, 0.03)},
	}
	cueDragStart = []Tone{tone(1040, 50, WaveTriangle, 0.03)}
	cueDropOK    = []Tone{tone(1320, 70, WaveSine, 0.05)}
	cueDropMiss  = []Tone{tone(240, 70, WaveSine, 0.03)}
	cueResolved  = []Tone{tone(1560, 80, WaveTriangle, 0.05), tone(1960, 60, WaveTriangle, 0.04)}
)
