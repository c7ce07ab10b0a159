package gate

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-gate/dsp/core"
)

const smoothingSeconds = 0.02

// SignalPath turns envelope values into per-sample gains with smoothed depth,
// dry/wet mix and output level, and applies them to both channels.
type SignalPath struct {
	depth  SmoothedValue
	mix    SmoothedValue
	output SmoothedValue
	primed bool
}

// Reset sets the 20 ms ramp length. The next SetTargets jumps instead of
// ramping.
func (s *SignalPath) Reset(sampleRate float64) {
	s.depth.Reset(sampleRate, smoothingSeconds)
	s.mix.Reset(sampleRate, smoothingSeconds)
	s.output.Reset(sampleRate, smoothingSeconds)
	s.primed = false
}

// SetTargets sets depth and mix in percent and output level in dB.
func (s *SignalPath) SetTargets(depthPct, mixPct, outputDB float64) {
	depth := core.ClampOr(depthPct, 0, 100, 100) / 100
	mix := core.ClampOr(mixPct, 0, 100, 100) / 100
	gain := core.DBToLinear(core.ClampOr(outputDB, -24, 12, 0))

	if !s.primed {
		s.depth.SetCurrentAndTarget(depth)
		s.mix.SetCurrentAndTarget(mix)
		s.output.SetCurrentAndTarget(gain)
		s.primed = true
		return
	}

	s.depth.SetTarget(depth)
	s.mix.SetTarget(mix)
	s.output.SetTarget(gain)
}

// Gain advances the smoothers one sample and returns the channel gain for
// envelope value env:
//
//	gateGain = 1 - (1-env)*depth
//	gain     = ((1-mix) + gateGain*mix) * output
func (s *SignalPath) Gain(env float64) float64 {
	depth := s.depth.Next()
	mix := s.mix.Next()
	output := s.output.Next()

	gateGain := 1 - (1-env)*depth
	return ((1 - mix) + gateGain*mix) * output
}

// Apply multiplies both channels by gains in place.
func (s *SignalPath) Apply(left, right, gains []float64) {
	vecmath.MulBlockInPlace(left, gains)
	vecmath.MulBlockInPlace(right, gains)
}
