package signal

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/cwbudde/algo-gate/dsp/core"
)

// Waveform selects the shape an [Oscillator] produces.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Noise
)

var waveformNames = []string{"sine", "saw", "noise"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// ParseWaveform resolves a waveform name such as "saw".
func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("unknown waveform %q (want one of %s)", s, strings.Join(waveformNames, ", "))
}

// Oscillator streams a periodic or noise signal block by block. Phase is
// carried across calls to Fill so consecutive blocks join without
// discontinuities.
type Oscillator struct {
	cfg       core.ProcessorConfig
	wave      Waveform
	freqHz    float64
	amplitude float64
	seed      uint64

	phase float64 // cycles, [0, 1)
	inc   float64
	rng   *rand.Rand
}

// Option configures an Oscillator.
type Option func(*Oscillator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(o *Oscillator) {
		o.seed = seed
	}
}

// NewOscillator creates a streaming oscillator for cfg.
func NewOscillator(cfg core.ProcessorConfig, wave Waveform, freqHz, amplitude float64, opts ...Option) (*Oscillator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("oscillator: %w", err)
	}
	if wave < Sine || wave > Noise {
		return nil, fmt.Errorf("oscillator: invalid waveform %d", int(wave))
	}
	if wave != Noise && (!(freqHz > 0) || freqHz >= cfg.SampleRate/2) {
		return nil, fmt.Errorf("oscillator frequency must be in (0, %g): %f", cfg.SampleRate/2, freqHz)
	}
	if amplitude < 0 || !core.IsFinite(amplitude) {
		return nil, fmt.Errorf("oscillator amplitude must be >= 0: %f", amplitude)
	}

	o := &Oscillator{
		cfg:       cfg,
		wave:      wave,
		freqHz:    freqHz,
		amplitude: amplitude,
		seed:      1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.Reset()
	return o, nil
}

// Config returns the oscillator processor configuration.
func (o *Oscillator) Config() core.ProcessorConfig { return o.cfg }

// Waveform returns the configured shape.
func (o *Oscillator) Waveform() Waveform { return o.wave }

// Reset restarts the phase and the noise sequence.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.inc = o.freqHz / o.cfg.SampleRate
	o.rng = rand.New(rand.NewPCG(o.seed, o.seed+1))
}

// Fill overwrites dst with the next len(dst) samples.
func (o *Oscillator) Fill(dst []float64) {
	switch o.wave {
	case Noise:
		for i := range dst {
			dst[i] = (o.rng.Float64()*2 - 1) * o.amplitude
		}
	case Saw:
		for i := range dst {
			dst[i] = o.amplitude * (2*o.phase - 1 - polyBLEP(o.phase, o.inc))
			o.advance()
		}
	default:
		for i := range dst {
			dst[i] = o.amplitude * math.Sin(2*math.Pi*o.phase)
			o.advance()
		}
	}
}

func (o *Oscillator) advance() {
	o.phase += o.inc
	if o.phase >= 1 {
		o.phase -= 1
	}
}

// polyBLEP smooths the saw reset over one sample on either side of the wrap.
func polyBLEP(t, dt float64) float64 {
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	default:
		return 0
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := core.PeakAbs(data)
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
