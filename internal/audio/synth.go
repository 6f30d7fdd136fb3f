// Package audio plays the short procedural beeps used as incident cues.
package audio

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/Garsondee/rugtown/internal/sim"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	Format       = oto.FormatFloat32LE

	// maxVoices limits overlapping beeps so chords never clip.
	maxVoices = 6
	// fadeSec is the attack and release ramp that keeps beeps click-free.
	fadeSec = 0.004
)

// Synth implements sim.Beeper on top of an oto context.
type Synth struct {
	ctx    *oto.Context
	ready  chan struct{}
	voices int32
}

// New opens the audio device. Callers fall back to silence on error.
func New() (*Synth, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, Format)
	if err != nil {
		return nil, err
	}
	return &Synth{ctx: ctx, ready: ready}, nil
}

// Beep plays t without blocking. Beeps requested before the device is ready,
// or beyond the voice limit, are dropped.
func (s *Synth) Beep(t sim.Tone) {
	if s == nil || s.ctx == nil || t.Gain <= 0 || t.Duration <= 0 {
		return
	}
	select {
	case <-s.ready:
	default:
		return
	}
	if atomic.AddInt32(&s.voices, 1) > maxVoices {
		atomic.AddInt32(&s.voices, -1)
		return
	}
	samples := Render(t)
	go func() {
		defer atomic.AddInt32(&s.voices, -1)
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		_ = player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Render synthesises t as interleaved stereo float32 little-endian frames.
func Render(t sim.Tone) []byte {
	n := int(t.Duration.Seconds() * SampleRate)
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n*8)
	dur := float64(n) / SampleRate
	for i := 0; i < n; i++ {
		ts := float64(i) / SampleRate
		phase := math.Mod(ts*t.Freq, 1)
		putStereoF32(buf, i, oscillator(t.Wave, phase)*t.Gain*envelope(ts, dur))
	}
	return buf
}

// oscillator returns one sample in [-1,1] for a phase in [0,1).
func oscillator(w sim.Waveform, phase float64) float64 {
	switch w {
	case sim.WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case sim.WaveSawtooth:
		return 2*phase - 1
	case sim.WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	}
	return math.Sin(2 * math.Pi * phase)
}

// envelope ramps in and out over fadeSec.
func envelope(t, dur float64) float64 {
	fade := math.Min(fadeSec, dur/2)
	switch {
	case t < fade:
		return t / fade
	case t > dur-fade:
		return math.Max(0, (dur-t)/fade)
	}
	return 1
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for c := 0; c < ChannelCount; c++ {
		o := i*8 + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
