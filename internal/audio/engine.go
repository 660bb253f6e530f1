package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DecodeError indicates a malformed audio payload or a missing output
// context. Callers treat it as "no audio for this slide", not fatal.
type DecodeError struct {
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return "audio: decode: " + e.Reason
}

// Engine is the audio playback engine. It owns exactly one active source
// at any instant; starting a new source cancels the previous one first.
// All playback routes through a single persistent gain stage.
type Engine struct {
	out Output

	mu      sync.Mutex
	gain    float64
	current *playbackSource
	seq     uint64
	closed  bool

	speaking atomic.Bool
}

// playbackSource keeps the PCM bytes alive for the lifetime of playback.
type playbackSource struct {
	id     uint64
	player Player
	data   []byte
}

// NewEngine creates an engine routed through the given output at full gain.
func NewEngine(out Output) *Engine {
	return &Engine{out: out, gain: 1.0}
}

// Decode interprets raw as 16-bit signed little-endian PCM, mono, 24 kHz,
// and normalizes each sample to floating point.
func (e *Engine) Decode(raw []byte) (*Buffer, error) {
	e.mu.Lock()
	closed := e.closed || e.out == nil
	e.mu.Unlock()
	if closed {
		return nil, &DecodeError{Reason: "no active output context"}
	}

	if len(raw) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	if len(raw)%2 != 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("payload length %d not aligned to 16-bit samples", len(raw))}
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(s) / 32768.0
	}

	return &Buffer{Samples: samples, SampleRate: SampleRate}, nil
}

// Play starts playback of the buffer on a new source, cancelling any
// source that is currently playing. It does not block; a completion
// watcher returns the engine to idle when the buffer finishes naturally.
func (e *Engine) Play(buf *Buffer) {
	if buf == nil || len(buf.Samples) == 0 {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	e.stopLocked()

	data := quantize(buf.Samples)
	player := e.out.NewPlayer(bytes.NewReader(data))
	player.SetVolume(e.gain)

	e.seq++
	src := &playbackSource{id: e.seq, player: player, data: data}
	e.current = src
	e.speaking.Store(true)
	e.mu.Unlock()

	player.Play()
	log.Debug("Playback started", "samples", len(buf.Samples), "duration", buf.Duration())

	go e.watch(src.id, player)
}

// watch polls the source until it drains, then returns the engine to idle
// unless the source was already replaced or stopped.
func (e *Engine) watch(id uint64, player Player) {
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		e.mu.Lock()
		if e.current == nil || e.current.id != id {
			// Replaced or stopped; the canceller cleaned up.
			e.mu.Unlock()
			return
		}
		if !player.IsPlaying() {
			e.current = nil
			e.speaking.Store(false)
			e.mu.Unlock()
			// Errors closing a finished source are swallowed.
			_ = player.Close()
			log.Debug("Playback finished")
			return
		}
		e.mu.Unlock()
	}
}

// Stop cancels the current source if playing. Safe to call when idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// stopLocked cancels the current source. Caller holds e.mu.
func (e *Engine) stopLocked() {
	if e.current == nil {
		return
	}
	e.current.player.Pause()
	// Closing an already-finished source can fail; that is fine.
	_ = e.current.player.Close()
	e.current = nil
	e.speaking.Store(false)
}

// SetGain updates the persistent gain stage. Applies to the current source
// and to all future ones.
func (e *Engine) SetGain(gain float64) error {
	if gain < 0.0 || gain > 1.0 {
		return fmt.Errorf("audio: gain must be between 0.0 and 1.0, got %f", gain)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.gain = gain
	if e.current != nil {
		e.current.player.SetVolume(gain)
	}
	return nil
}

// Gain returns the current gain value.
func (e *Engine) Gain() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gain
}

// IsSpeaking reports whether a source is currently playing.
func (e *Engine) IsSpeaking() bool {
	return e.speaking.Load()
}

// Close stops playback and releases the output device.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.stopLocked()
	e.closed = true
	return e.out.Close()
}

// quantize converts normalized samples back to 16-bit signed little-endian
// PCM for the output device.
func quantize(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(s*32767)))
	}
	return data
}
