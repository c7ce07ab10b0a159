package gate

import (
	"math/rand/v2"

	"github.com/cwbudde/algo-gate/dsp/core"
)

const (
	swingScale    = 0.5
	humanizeScale = 0.1
	velocityScale = 0.5
)

// Modulators holds the swing, humanize and velocity amounts and the single
// uniform random source they share.
type Modulators struct {
	rng      *rand.Rand
	swing    float64
	humanize float64
	velocity float64
}

// NewModulators returns modulators seeded with seed.
func NewModulators(seed uint64) *Modulators {
	return &Modulators{rng: newRand(seed)}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Configure sets the amounts from percentages in [0, 100].
func (m *Modulators) Configure(swingPct, humanizePct, velocityPct float64) {
	m.swing = core.ClampOr(swingPct, 0, 100, 0) / 100
	m.humanize = core.ClampOr(humanizePct, 0, 100, 0) / 100
	m.velocity = core.ClampOr(velocityPct, 0, 100, 0) / 100
}

// Uniform draws from [-1, 1).
func (m *Modulators) Uniform() float64 {
	return m.rng.Float64()*2 - 1
}

// SwingOffset returns the onset delay of step in steps. Only odd steps swing.
func (m *Modulators) SwingOffset(step int) float64 {
	if step%2 == 1 {
		return m.swing * swingScale
	}
	return 0
}

// SwingOffsetSamples returns the swing delay of step in samples.
func (m *Modulators) SwingOffsetSamples(step int, samplesPerStep float64) float64 {
	return m.SwingOffset(step) * samplesPerStep
}

// OnsetOffset returns the total onset offset for step in steps: swing plus a
// fresh humanize draw. Humanize jitter may be negative.
func (m *Modulators) OnsetOffset(step int) float64 {
	offset := m.SwingOffset(step)
	if m.humanize > 0 {
		offset += m.Uniform() * m.humanize * humanizeScale
	}
	return offset
}

// ApplyVelocity scales a shaped envelope value by a per-sample random level.
// Each call draws anew; the result never exceeds the input.
func (m *Modulators) ApplyVelocity(env float64) float64 {
	if m.velocity <= 0 {
		return env
	}
	amt := m.velocity * velocityScale
	return env * (1 - amt + m.Uniform()*amt)
}
