// Package audio owns the single audio output path for a lesson-viewing
// session: PCM decode, one active playback source, and the persistent gain
// stage every source routes through.
package audio

import "time"

// Synthesized narration arrives as raw PCM in this fixed format.
const (
	// SampleRate is the fixed sample rate of synthesized speech.
	SampleRate = 24000

	// Channels is the channel count (mono).
	Channels = 1

	// BitDepth is the bits per sample of the raw payload.
	BitDepth = 16
)

// Buffer is a decoded audio buffer: mono, normalized floating-point
// samples in [-1.0, 1.0] at a fixed sample rate.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}
