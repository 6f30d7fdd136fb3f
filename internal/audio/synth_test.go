package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/rugtown/internal/sim"
)

func frames(buf []byte) (left, right []float64) {
	for i := 0; i+8 <= len(buf); i += 8 {
		left = append(left, float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i:]))))
		right = append(right, float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i+4:]))))
	}
	return left, right
}

func TestRender_LengthMatchesDuration(t *testing.T) {
	buf := Render(sim.Tone{Freq: 440, Duration: 100 * time.Millisecond, Wave: sim.WaveSine, Gain: 0.05})
	assert.Len(t, buf, 4410*8)
}

func TestRender_PeakNeverExceedsGain(t *testing.T) {
	for _, w := range []sim.Waveform{sim.WaveSine, sim.WaveSquare, sim.WaveSawtooth, sim.WaveTriangle} {
		t.Run(w.String(), func(t *testing.T) {
			left, right := frames(Render(sim.Tone{Freq: 880, Duration: 60 * time.Millisecond, Wave: w, Gain: 0.03}))
			require.NotEmpty(t, left)
			for i := range left {
				assert.LessOrEqual(t, math.Abs(left[i]), 0.03+1e-6)
				assert.Equal(t, left[i], right[i], "channels are identical")
			}
		})
	}
}

func TestRender_FadesAtEdges(t *testing.T) {
	left, _ := frames(Render(sim.Tone{Freq: 1040, Duration: 50 * time.Millisecond, Wave: sim.WaveSquare, Gain: 0.05}))
	assert.InDelta(t, 0, left[0], 1e-9)
	assert.Less(t, math.Abs(left[len(left)-1]), 0.05*0.1)
}

func TestRender_EmptyForZeroDuration(t *testing.T) {
	assert.Nil(t, Render(sim.Tone{Freq: 440, Gain: 1}))
}

func TestOscillator_Shapes(t *testing.T) {
	assert.Equal(t, 1.0, oscillator(sim.WaveSquare, 0.25))
	assert.Equal(t, -1.0, oscillator(sim.WaveSquare, 0.75))
	assert.InDelta(t, -1, oscillator(sim.WaveSawtooth, 0), 1e-9)
	assert.InDelta(t, 1, oscillator(sim.WaveTriangle, 0.5), 1e-9)
	assert.InDelta(t, 1, oscillator(sim.WaveSine, 0.25), 1e-9)
}

func TestSoundReader_DrainsThenEOF(t *testing.T) {
	r := &soundReader{data: []byte{1, 2, 3, 4, 5}}
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	assert.Equal(t, 3, n)
	assert.NoError(t, err)
	n, err = r.Read(buf)
	assert.Equal(t, 2, n)
	assert.NoError(t, err)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSynth_NilIsSilent(t *testing.T) {
	var s *Synth
	assert.NotPanics(t, func() { s.Beep(sim.Tone{Freq: 440, Duration: time.Millisecond, Gain: 1}) })
}
