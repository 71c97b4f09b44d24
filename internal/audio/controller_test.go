package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	playing bool
	volume  float64
	plays   int
}

func (f *fakePlayer) Play()               { f.playing = true; f.plays++ }
func (f *fakePlayer) Pause()              { f.playing = false }
func (f *fakePlayer) IsPlaying() bool     { return f.playing }
func (f *fakePlayer) SetVolume(v float64) { f.volume = v }

func TestController_StartsPausedAtDefaultVolume(t *testing.T) {
	p := &fakePlayer{volume: 1}
	c := NewController(p, nil)
	assert.False(t, c.Playing())
	assert.False(t, c.Muted())
	assert.Equal(t, DefaultVolume, p.volume)
}

func TestController_TogglePlayPause(t *testing.T) {
	p := &fakePlayer{}
	c := NewController(p, nil)

	require.NoError(t, c.Toggle())
	assert.True(t, c.Playing())
	require.NoError(t, c.Toggle())
	assert.False(t, c.Playing())
	assert.Equal(t, 1, p.plays)
}

func TestController_MuteIsIndependentOfPlayback(t *testing.T) {
	p := &fakePlayer{}
	c := NewController(p, nil)
	require.NoError(t, c.Toggle())

	c.ToggleMute()
	assert.True(t, c.Muted())
	assert.True(t, c.Playing(), "muting keeps the loop running")
	assert.Zero(t, p.volume)

	c.ToggleMute()
	assert.False(t, c.Muted())
	assert.Equal(t, DefaultVolume, p.volume)
	assert.Equal(t, DefaultVolume, c.Volume())
}

func TestController_NoPlayer(t *testing.T) {
	c := NewController(nil, nil)
	assert.ErrorIs(t, c.Toggle(), ErrNoPlayer)
	assert.False(t, c.Playing())
	c.ToggleMute()
	assert.True(t, c.Muted())
}
