// Package midisync follows an external MIDI clock and maps MIDI control
// changes onto gate parameters.
package midisync

import (
	"fmt"
	"math"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-gate/dsp/gate"
)

const (
	// TicksPerQuarter is the MIDI clock resolution.
	TicksPerQuarter   = 24
	ticksPerSixteenth = TicksPerQuarter / 4

	tempoSmoothing = 0.2
	minBPM         = 20.0
	maxBPM         = 400.0
)

// Clock turns MIDI clock, start/stop/continue and song position messages
// into a host position for the gate. Messages arrive on the MIDI goroutine;
// Position and Advance are called on the audio goroutine.
//
// Between ticks the position is interpolated from the rendered sample count
// but never runs past the next expected tick.
type Clock struct {
	mu sync.Mutex

	sampleRate float64
	bpm        float64
	running    bool
	armed      bool // next tick marks the current position instead of advancing
	ticks      int64
	lastTick   time.Duration
	haveTick   bool
	sinceTick  int
}

// NewClock returns a stopped clock reporting bpm until ticks arrive.
func NewClock(sampleRate, bpm float64) (*Clock, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("midisync: sample rate must be positive and finite: %f", sampleRate)
	}
	if !(bpm >= minBPM && bpm <= maxBPM) {
		return nil, fmt.Errorf("midisync: tempo must be in [%g, %g]: %f", minBPM, maxBPM, bpm)
	}
	return &Clock{sampleRate: sampleRate, bpm: bpm}, nil
}

// Handle dispatches one MIDI message received at time at. Messages other
// than clock, transport and song position are ignored; the return value
// reports whether msg was consumed.
func (c *Clock) Handle(msg gomidi.Message, at time.Duration) bool {
	var spp uint16
	switch {
	case msg.Is(gomidi.TimingClockMsg):
		c.Tick(at)
	case msg.Is(gomidi.StartMsg):
		c.Start()
	case msg.Is(gomidi.ContinueMsg):
		c.Continue()
	case msg.Is(gomidi.StopMsg):
		c.Stop()
	case msg.GetSPP(&spp):
		c.SongPosition(spp)
	default:
		return false
	}
	return true
}

// Tick registers one clock pulse. The tempo estimate follows the pulse
// interval even while stopped.
func (c *Clock) Tick(at time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.haveTick {
		if interval := at - c.lastTick; interval > 0 {
			inst := 60 / (interval.Seconds() * TicksPerQuarter)
			if inst >= minBPM && inst <= maxBPM {
				c.bpm += tempoSmoothing * (inst - c.bpm)
			}
		}
	}
	c.lastTick = at
	c.haveTick = true

	if !c.running {
		return
	}
	if c.armed {
		c.armed = false
	} else {
		c.ticks++
	}
	c.sinceTick = 0
}

// Start rewinds to the beginning and runs from the next tick.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
	c.running = true
	c.armed = true
	c.sinceTick = 0
}

// Continue resumes from the current song position.
func (c *Clock) Continue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.armed = true
	c.sinceTick = 0
}

// Stop halts the position; tempo tracking continues.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// SongPosition moves to a position given in sixteenth notes.
func (c *Clock) SongPosition(sixteenths uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = int64(sixteenths) * ticksPerSixteenth
	c.sinceTick = 0
	if c.running {
		c.armed = true
	}
}

// Running reports whether the external transport is playing.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Tempo returns the current tempo estimate.
func (c *Clock) Tempo() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bpm
}

// Position reports the host information for the next block. While stopped
// only the tempo is reported.
func (c *Clock) Position() gate.HostPosition {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return gate.AtTempo(c.bpm)
	}

	ppq := float64(c.ticks) / TicksPerQuarter
	if !c.armed {
		samplesPerBeat := c.sampleRate * 60 / c.bpm
		frac := float64(c.sinceTick) / samplesPerBeat
		ppq += min(frac, 0.999/TicksPerQuarter)
	}
	return gate.At(c.bpm, ppq)
}

// Advance records that samples frames were rendered since the last call.
func (c *Clock) Advance(samples int) {
	if samples <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.sinceTick += samples
	}
}
