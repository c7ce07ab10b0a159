package gate

import (
	"math"

	"github.com/cwbudde/algo-gate/dsp/core"
)

// Stage is the state of an [Envelope].
type Stage int

const (
	// StageOff emits 0 until the next trigger.
	StageOff Stage = iota
	// StageAttack ramps the value from 0 to 1.
	StageAttack
	// StageHold emits 1 for a fraction of the step length.
	StageHold
	// StageRelease ramps the value from 1 to 0.
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "attack"
	case StageHold:
		return "hold"
	case StageRelease:
		return "release"
	default:
		return "off"
	}
}

// Envelope is a linear attack/hold/release generator whose attack and
// release segments are bent by a curve amount.
//
// One envelope serves the whole step sequence: a trigger restarts the attack
// from zero whatever the current stage is.
type Envelope struct {
	sampleRate float64

	attackStep  float64
	releaseStep float64
	holdFrac    float64
	curve       float64

	stage         Stage
	value         float64
	holdRemaining int
}

// NewEnvelope returns an envelope at the default gate settings
// (5 ms attack, 50 % hold, 50 ms release, linear curve).
func NewEnvelope(sampleRate float64) *Envelope {
	e := &Envelope{}
	e.Reset(sampleRate)
	return e
}

// Reset silences the envelope and adopts a new sample rate.
func (e *Envelope) Reset(sampleRate float64) {
	e.sampleRate = core.SafeDivisor(sampleRate)
	e.stage = StageOff
	e.value = 0
	e.holdRemaining = 0
	e.Configure(5, 50, 50, 0)
}

// Configure sets the segment times. Zero or negative times degrade to a
// single-sample segment.
func (e *Envelope) Configure(attackMs, holdPct, releaseMs, curve float64) {
	e.attackStep = 1 / core.SafeDivisor(attackMs/1000*e.sampleRate)
	e.releaseStep = 1 / core.SafeDivisor(releaseMs/1000*e.sampleRate)
	e.holdFrac = core.Clamp(holdPct, 0, 100) / 100
	e.curve = core.ClampOr(curve, -100, 100, 0)
}

// Trigger restarts the attack from zero.
func (e *Envelope) Trigger() {
	e.stage = StageAttack
	e.value = 0
}

// Stage returns the current stage.
func (e *Envelope) Stage() Stage { return e.stage }

// Value returns the current unshaped amplitude in [0, 1].
func (e *Envelope) Value() float64 { return e.value }

// Next advances one sample and returns the shaped gain. stepLength is the
// current step duration in samples and sizes the hold segment when the
// attack completes.
func (e *Envelope) Next(stepLength int) float64 {
	switch e.stage {
	case StageAttack:
		e.value += e.attackStep
		if e.value >= 1 {
			e.value = 1
			e.stage = StageHold
			e.holdRemaining = int(e.holdFrac * float64(stepLength))
		}
		return Shape(e.value, e.curve)

	case StageHold:
		e.holdRemaining--
		if e.holdRemaining <= 0 {
			e.stage = StageRelease
		}
		return 1

	case StageRelease:
		e.value -= e.releaseStep
		if e.value <= 0 {
			e.value = 0
			e.stage = StageOff
		}
		return core.FlushDenormals(Shape(e.value, e.curve))

	default:
		return 0
	}
}

// Shape bends a linear ramp value in [0, 1]. Positive curves are
// exponential (slow start), negative curves logarithmic (fast start) and
// |curve| < 1 is linear. Both ends stay fixed at 0 and 1.
func Shape(value, curve float64) float64 {
	value = core.Clamp(value, 0, 1)
	switch {
	case math.Abs(curve) < 1:
		return value
	case curve > 0:
		return math.Pow(value, 1+curve/50)
	default:
		return 1 - math.Pow(1-value, 1-curve/50)
	}
}
