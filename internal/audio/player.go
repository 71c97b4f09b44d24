package audio

import (
	"fmt"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// NewAmbiencePlayer builds the ambience on ctx. The player starts paused
// at DefaultVolume; hand it to NewController.
func NewAmbiencePlayer(ctx *ebaudio.Context) (*ebaudio.Player, error) {
	amb, err := NewAmbience(SampleRate)
	if err != nil {
		return nil, err
	}
	p, err := ctx.NewPlayerF32(newPCMReader(amb))
	if err != nil {
		return nil, fmt.Errorf("ambience player: %w", err)
	}
	p.SetVolume(DefaultVolume)
	return p, nil
}
