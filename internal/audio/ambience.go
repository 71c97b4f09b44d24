// Package audio synthesizes the dashboard ambience and controls its
// playback.
package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is shared by the synthesis and the output device.
const SampleRate = beep.SampleRate(44100)

// droneVoice is one sustained tone of the ambience.
type droneVoice struct {
	freq    float64
	level   float64 // linear gain
	lfoRate float64 // tremolo cycles per second
}

// ambienceVoices is a soft open fifth over A2 with an octave on top.
var ambienceVoices = []droneVoice{
	{freq: 110.00, level: 0.5, lfoRate: 0.11},
	{freq: 164.81, level: 0.3, lfoRate: 0.07},
	{freq: 220.00, level: 0.2, lfoRate: 0.13},
}

// NewAmbience returns an endless, slowly breathing drone. The output stays
// within [-1, 1].
func NewAmbience(sr beep.SampleRate) (beep.Streamer, error) {
	mixer := &beep.Mixer{}
	total := 0.0
	for _, v := range ambienceVoices {
		tone, err := generators.SineTone(sr, v.freq)
		if err != nil {
			return nil, fmt.Errorf("ambience tone %.2fHz: %w", v.freq, err)
		}
		mixer.Add(newVolume(newTremolo(tone, sr, v.lfoRate), v.level))
		total += v.level
	}
	// Normalise the mix so the voices never sum past full scale.
	return newVolume(mixer, 1/total), nil
}

// newVolume applies a linear gain. math.Log2(0) is -Inf, so 0 is silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tremolo swings the amplitude of a stream between 0.6 and 1.0.
type tremolo struct {
	streamer beep.Streamer
	step     float64 // phase advance per sample
	phase    float64
}

func newTremolo(s beep.Streamer, sr beep.SampleRate, rate float64) *tremolo {
	return &tremolo{streamer: s, step: rate / float64(sr)}
}

func (t *tremolo) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := 0.8 + 0.2*math.Sin(2*math.Pi*t.phase)
		samples[i][0] *= g
		samples[i][1] *= g
		t.phase += t.step
		t.phase -= math.Floor(t.phase)
	}
	return n, ok
}

func (t *tremolo) Err() error { return t.streamer.Err() }
