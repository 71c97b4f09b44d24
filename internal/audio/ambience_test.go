package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmbience_EndlessAndInRange(t *testing.T) {
	amb, err := NewAmbience(SampleRate)
	require.NoError(t, err)

	samples := make([][2]float64, 4096)
	peak := 0.0
	// Three seconds of audio.
	for i := 0; i < 32; i++ {
		n, ok := amb.Stream(samples)
		require.True(t, ok, "ambience must never end")
		require.Equal(t, len(samples), n)
		for _, s := range samples[:n] {
			assert.LessOrEqual(t, math.Abs(s[0]), 1.0)
			assert.Equal(t, s[0], s[1], "ambience is mono in both channels")
			peak = math.Max(peak, math.Abs(s[0]))
		}
	}
	assert.Greater(t, peak, 0.1, "ambience should be audible")
	assert.NoError(t, amb.Err())
}

func TestTremolo_StaysWithinGainBounds(t *testing.T) {
	ones := constStreamer(1)
	tr := newTremolo(ones, SampleRate, 5)
	samples := make([][2]float64, int(SampleRate)/5)
	n, ok := tr.Stream(samples)
	require.True(t, ok)

	lo, hi := 1.0, 0.0
	for _, s := range samples[:n] {
		lo = math.Min(lo, s[0])
		hi = math.Max(hi, s[0])
	}
	assert.InDelta(t, 0.6, lo, 0.01)
	assert.InDelta(t, 1.0, hi, 0.01)
}

func TestNewVolume_ZeroIsSilent(t *testing.T) {
	s := newVolume(constStreamer(0.5), 0)
	samples := make([][2]float64, 16)
	n, _ := s.Stream(samples)
	for _, v := range samples[:n] {
		assert.Zero(t, v[0])
	}

	half := newVolume(constStreamer(0.5), 0.5)
	n, _ = half.Stream(samples)
	require.Positive(t, n)
	assert.InDelta(t, 0.25, samples[0][0], 1e-9)
}

// constStreamer is an endless stream of v on both channels.
type constStreamer float64

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0], samples[i][1] = float64(c), float64(c)
	}
	return len(samples), true
}

func (c constStreamer) Err() error { return nil }
