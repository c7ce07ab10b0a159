// Package session wires a gate processor to a parameter store, a transport
// clock and an input source, and renders stereo audio on demand.
package session

import (
	"fmt"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// Clock reports the host position for the next block and is told how many
// samples were rendered. hostsim.Transport and midisync.Clock implement it.
type Clock interface {
	Position() gate.HostPosition
	Advance(samples int)
}

// Input produces dry stereo audio.
type Input interface {
	Read(left, right []float64)
}

// Session renders gated audio block by block. Render must be called from a
// single goroutine; the store may be written from any goroutine.
type Session struct {
	proc  *gate.Processor
	store *param.Store
	clock Clock
	input Input
	block int
}

// New creates a session. input may be nil for silence. opts configure the
// processor.
func New(cfg core.ProcessorConfig, store *param.Store, clock Clock, input Input, opts ...gate.Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("session: nil parameter store")
	}
	if clock == nil {
		return nil, fmt.Errorf("session: nil clock")
	}

	proc, err := gate.NewProcessor(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Session{
		proc:  proc,
		store: store,
		clock: clock,
		input: input,
		block: cfg.BlockSize,
	}, nil
}

// Processor returns the gate.
func (s *Session) Processor() *gate.Processor { return s.proc }

// Store returns the live parameters.
func (s *Session) Store() *param.Store { return s.store }

// Visualizer returns the gate's visualizer tap.
func (s *Session) Visualizer() *gate.VisualizerTap { return s.proc.Visualizer() }

// Render reads len(left) frames from the input and gates them.
func (s *Session) Render(left, right []float64) {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]

	if s.input != nil {
		s.input.Read(left, right)
	} else {
		clear(left)
		clear(right)
	}
	s.Process(left, right)
}

// Process gates left and right in place in blocks of the configured size,
// reading the parameters and the clock once per block.
func (s *Session) Process(left, right []float64) {
	n := min(len(left), len(right))
	for start := 0; start < n; start += s.block {
		end := min(start+s.block, n)
		s.proc.ProcessBlock(left[start:end], right[start:end], s.clock.Position(), s.store.Load())
		s.clock.Advance(end - start)
	}
}
