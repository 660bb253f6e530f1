package audio

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// Output is the device-facing side of the engine. The production
// implementation wraps an oto context; tests substitute a mock.
type Output interface {
	// NewPlayer creates a player that consumes PCM from r.
	NewPlayer(r io.Reader) Player

	// Close releases the output device.
	Close() error
}

// Player is one playback source created from an Output.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

type otoOutput struct {
	ctx *oto.Context
}

// NewOtoOutput opens the process-wide audio device for the narration
// format. Created once when the lesson controller mounts and torn down at
// unmount, not per slide.
func NewOtoOutput() (Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: create oto context: %w", err)
	}
	<-readyChan

	return &otoOutput{ctx: ctx}, nil
}

func (o *otoOutput) NewPlayer(r io.Reader) Player {
	return o.ctx.NewPlayer(r)
}

func (o *otoOutput) Close() error {
	// oto v3 contexts have no Close; the device is released when the
	// context is garbage collected.
	o.ctx = nil
	return nil
}
