//go:build headless

package playback

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by NewPlayer in headless builds.
var ErrUnavailable = errors.New("playback: audio output not available in headless build")

// Player is a stand-in that never opens a device.
type Player struct {
	started bool
}

// NewPlayer always fails in headless builds.
func NewPlayer(sampleRate int, bufferSize time.Duration) (*Player, error) {
	return nil, ErrUnavailable
}

func (p *Player) Start(src Source) { p.started = true }

func (p *Player) Stop() { p.started = false }

func (p *Player) IsStarted() bool { return p.started }

func (p *Player) Close() error {
	p.started = false
	return nil
}
