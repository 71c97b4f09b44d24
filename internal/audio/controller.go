package audio

import (
	"errors"

	"go.uber.org/zap"
)

// DefaultVolume is the ambience level when not muted.
const DefaultVolume = 0.3

// ErrNoPlayer is returned by Toggle when audio could not be opened.
var ErrNoPlayer = errors.New("audio: no player")

// Player is the part of an output player the controller drives.
// *ebiten/audio.Player satisfies it.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
}

// Controller is the play/pause and mute state of the ambience. Playback
// and muting are independent: a muted loop keeps playing silently.
type Controller struct {
	player Player
	muted  bool
	log    *zap.Logger
}

// NewController wraps p, which may be nil when no device is available.
func NewController(p Player, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if p != nil {
		p.SetVolume(DefaultVolume)
	}
	return &Controller{player: p, log: log}
}

// Toggle starts or pauses the loop.
func (c *Controller) Toggle() error {
	if c.player == nil {
		return ErrNoPlayer
	}
	if c.player.IsPlaying() {
		c.player.Pause()
		c.log.Debug("ambience paused")
		return nil
	}
	c.player.Play()
	c.log.Debug("ambience playing", zap.Bool("muted", c.muted))
	return nil
}

// ToggleMute flips between silence and DefaultVolume.
func (c *Controller) ToggleMute() {
	c.muted = !c.muted
	if c.player != nil {
		c.player.SetVolume(c.Volume())
	}
}

// Playing reports whether the loop is running.
func (c *Controller) Playing() bool {
	return c.player != nil && c.player.IsPlaying()
}

// Muted reports the mute flag.
func (c *Controller) Muted() bool { return c.muted }

// Volume is the level currently applied to the player.
func (c *Controller) Volume() float64 {
	if c.muted {
		return 0
	}
	return DefaultVolume
}
