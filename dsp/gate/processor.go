package gate

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// TailSeconds is how long the gate may keep producing output after its input
// stops.
const TailSeconds = 0.5

// Option configures a Processor.
type Option func(*Processor)

// WithSeed fixes the random source used by humanize and velocity. Without it
// the source is seeded nondeterministically.
func WithSeed(seed uint64) Option {
	return func(p *Processor) {
		p.mods.rng = newRand(seed)
	}
}

// Processor runs the gate over stereo blocks. It owns one transport, one
// envelope, one set of modulators, one signal path and one visualizer tap.
//
// ProcessBlock must be called from a single goroutine. Visualizer may be read
// from any goroutine.
type Processor struct {
	cfg core.ProcessorConfig

	transport  Transport
	envelope   Envelope
	mods       Modulators
	path       SignalPath
	tap        *VisualizerTap
	gains      []float64
	nextOffset float64
}

// NewProcessor creates a processor for cfg.
func NewProcessor(cfg core.ProcessorConfig, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gate processor: %w", err)
	}

	p := &Processor{
		tap:  NewVisualizerTap(),
		mods: Modulators{rng: newRand(rand.Uint64())},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.cfg = cfg
	p.gains = make([]float64, cfg.BlockSize)
	p.Reset()

	return p, nil
}

// Prepare adopts a new sample rate and block size. Any change resets the
// transport, envelope and smoothing state.
func (p *Processor) Prepare(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("gate processor: %w", err)
	}
	if cfg == p.cfg {
		return nil
	}

	p.cfg = cfg
	p.gains = core.EnsureLen(p.gains, cfg.BlockSize)
	p.Reset()

	return nil
}

// Reset rewinds the transport, silences the envelope and snaps smoothing to
// the next parameter snapshot.
func (p *Processor) Reset() {
	p.transport.Reset(p.cfg.SampleRate)
	p.envelope.Reset(p.cfg.SampleRate)
	p.path.Reset(p.cfg.SampleRate)
	p.nextOffset = 0
}

// Config returns the prepared configuration.
func (p *Processor) Config() core.ProcessorConfig { return p.cfg }

// TailSeconds returns the release tail length reported to hosts.
func (p *Processor) TailSeconds() float64 { return TailSeconds }

// Visualizer returns the tap updated after every block.
func (p *Processor) Visualizer() *VisualizerTap { return p.tap }

// Transport exposes the step clock for inspection.
func (p *Processor) Transport() *Transport { return &p.transport }

// Envelope exposes the envelope for inspection.
func (p *Processor) Envelope() *Envelope { return &p.envelope }

// ProcessBlock gates left and right in place. Only the common length of both
// channels is processed. Blocks longer than the prepared block size are
// processed in chunks.
func (p *Processor) ProcessBlock(left, right []float64, host HostPosition, v param.Values) {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]

	v = v.Sanitized()
	pattern := ResolvePattern(v.Pattern, v.StepData)
	p.transport.BeginBlock(host, v.Rate, v.Steps)

	if v.Bypass {
		p.transport.Skip(n)
		p.tap.Publish(Snapshot{
			CurrentStep: p.transport.Step(),
			GateLevel:   1,
			OutputLevel: max(core.PeakAbs(left), core.PeakAbs(right)),
			StepPattern: uint16(pattern),
		})
		return
	}

	p.envelope.Configure(v.AttackMs, v.HoldPct, v.ReleaseMs, v.Curve)
	p.mods.Configure(v.Swing, v.Humanize, v.Velocity)
	p.path.SetTargets(v.Depth, v.Mix, v.OutputDB)

	stepLength := int(p.transport.SamplesPerStep())
	peak, envSum := 0.0, 0.0

	for start := 0; start < n; start += len(p.gains) {
		end := min(start+len(p.gains), n)
		gains := p.gains[:end-start]

		for i := range gains {
			if step, ok := p.transport.CheckOnset(p.nextOffset); ok {
				if pattern.StepOn(step) {
					p.envelope.Trigger()
				}
				p.nextOffset = p.mods.OnsetOffset(p.transport.NextStep())
			}

			env := p.mods.ApplyVelocity(p.envelope.Next(stepLength))
			gains[i] = p.path.Gain(env)
			envSum += env

			p.transport.Advance()
		}

		p.path.Apply(left[start:end], right[start:end], gains)
		peak = max(peak, core.PeakAbs(left[start:end]), core.PeakAbs(right[start:end]))
	}

	gateLevel := 0.0
	if n > 0 {
		gateLevel = envSum / float64(n)
	}

	p.tap.Publish(Snapshot{
		CurrentStep: p.transport.Step(),
		GateLevel:   gateLevel,
		OutputLevel: peak,
		StepPattern: uint16(pattern),
	})
}
