//go:build !headless

package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player owns the audio device context and one player pulling from a
// [Stream].
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream

	mu      sync.Mutex // setup and control only
	started bool
}

// NewPlayer opens the default output device at sampleRate. bufferSize is the
// device buffer length; zero picks the driver default.
func NewPlayer(sampleRate int, bufferSize time.Duration) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("playback: sample rate must be > 0: %d", sampleRate)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("playback: open device: %w", err)
	}
	<-ready

	stream := NewStream(nil)
	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(stream),
		stream: stream,
	}, nil
}

// Start begins pulling audio from src.
func (p *Player) Start(src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stream.SetSource(src)
	if !p.started {
		p.player.Play()
		p.started = true
	}
}

// Stop pauses output. The source stays attached.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		p.player.Pause()
		p.started = false
	}
}

// IsStarted reports whether audio is being pulled.
func (p *Player) IsStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Close stops output and releases the player.
func (p *Player) Close() error {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stream.SetSource(nil)
	return p.player.Close()
}
