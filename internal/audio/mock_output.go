package audio

import (
	"io"
	"sync"
)

// MockOutput is an in-memory Output for tests and environments without an
// audio device. It records every player it creates.
type MockOutput struct {
	mu      sync.Mutex
	players []*MockPlayer
	closed  bool
}

// NewMockOutput creates a mock output device.
func NewMockOutput() *MockOutput {
	return &MockOutput{}
}

// NewPlayer creates a mock player that consumes all of r immediately.
func (m *MockOutput) NewPlayer(r io.Reader) Player {
	data, _ := io.ReadAll(r)

	m.mu.Lock()
	defer m.mu.Unlock()

	p := &MockPlayer{data: data, volume: 1.0}
	m.players = append(m.players, p)
	return p
}

// Close marks the output as closed.
func (m *MockOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Players returns every player created so far.
func (m *MockOutput) Players() []*MockPlayer {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*MockPlayer, len(m.players))
	copy(out, m.players)
	return out
}

// PlayingCount returns how many created players are currently playing.
func (m *MockOutput) PlayingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, p := range m.players {
		if p.IsPlaying() {
			n++
		}
	}
	return n
}

// MockPlayer is a Player that tracks state without touching hardware.
type MockPlayer struct {
	mu      sync.Mutex
	data    []byte
	playing bool
	volume  float64
	closed  bool
}

// Play marks the player as playing.
func (p *MockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.playing = true
	}
}

// Pause marks the player as not playing.
func (p *MockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// IsPlaying reports whether the player is playing.
func (p *MockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// SetVolume records the volume.
func (p *MockPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

// Volume returns the recorded volume.
func (p *MockPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Close stops and closes the player.
func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.closed = true
	return nil
}

// FinishPlayback simulates the buffer draining naturally.
func (p *MockPlayer) FinishPlayback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// Data returns the PCM bytes the player consumed.
func (p *MockPlayer) Data() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// IsClosed reports whether Close was called.
func (p *MockPlayer) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
