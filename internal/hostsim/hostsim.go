// Package hostsim simulates a host transport that reports tempo and musical
// position to the gate once per block.
package hostsim

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
)

// Transport is a play/stop transport with an optional loop region. Positions
// are in quarter notes (ppq).
type Transport struct {
	sampleRate float64
	bpm        float64
	ppq        float64
	playing    bool

	looping   bool
	loopStart float64
	loopEnd   float64
}

// New returns a stopped transport at ppq 0.
func New(sampleRate, bpm float64) (*Transport, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("hostsim: sample rate must be positive and finite: %f", sampleRate)
	}
	t := &Transport{sampleRate: sampleRate}
	if err := t.SetTempo(bpm); err != nil {
		return nil, err
	}
	return t, nil
}

// SetTempo changes the tempo in beats per minute.
func (t *Transport) SetTempo(bpm float64) error {
	if !(bpm > 0) || math.IsInf(bpm, 0) {
		return fmt.Errorf("hostsim: tempo must be positive and finite: %f", bpm)
	}
	t.bpm = bpm
	return nil
}

// Tempo returns the tempo in beats per minute.
func (t *Transport) Tempo() float64 { return t.bpm }

// PPQ returns the musical position in quarter notes.
func (t *Transport) PPQ() float64 { return t.ppq }

// Play starts the transport from the current position.
func (t *Transport) Play() { t.playing = true }

// Stop halts the transport; the position is kept.
func (t *Transport) Stop() { t.playing = false }

// Playing reports whether the transport is running.
func (t *Transport) Playing() bool { return t.playing }

// Seek jumps to ppq.
func (t *Transport) Seek(ppq float64) {
	if core.IsFinite(ppq) {
		t.ppq = ppq
	}
}

// SetLoop enables a loop region [start, end) in quarter notes.
func (t *Transport) SetLoop(start, end float64) error {
	if !core.IsFinite(start) || !core.IsFinite(end) || end <= start {
		return fmt.Errorf("hostsim: invalid loop [%f, %f)", start, end)
	}
	t.looping = true
	t.loopStart = start
	t.loopEnd = end
	return nil
}

// ClearLoop disables looping.
func (t *Transport) ClearLoop() { t.looping = false }

// Loop returns the loop region and whether it is active.
func (t *Transport) Loop() (start, end float64, ok bool) {
	return t.loopStart, t.loopEnd, t.looping
}

// Position reports the host information for the next block. A stopped
// transport reports only its tempo.
func (t *Transport) Position() gate.HostPosition {
	if !t.playing {
		return gate.AtTempo(t.bpm)
	}
	return gate.At(t.bpm, t.ppq)
}

// Advance moves a playing transport forward by samples.
func (t *Transport) Advance(samples int) {
	if !t.playing || samples <= 0 {
		return
	}
	t.ppq += float64(samples) / t.sampleRate * t.bpm / 60

	if t.looping && t.ppq >= t.loopEnd {
		t.ppq = t.loopStart + core.Wrap(t.ppq-t.loopStart, t.loopEnd-t.loopStart)
	}
}

// SamplesPerBeat returns the length of a quarter note in samples.
func (t *Transport) SamplesPerBeat() float64 {
	return t.sampleRate * 60 / t.bpm
}
