package gate

import "github.com/cwbudde/algo-gate/dsp/core"

// retargetEps is the relative change below which a new target is ignored.
const retargetEps = 1e-12

// SmoothedValue ramps linearly toward its target over a fixed number of
// samples. A new target starts a fresh ramp from the current value.
type SmoothedValue struct {
	current     float64
	target      float64
	step        float64
	countdown   int
	rampSamples int
}

// Reset sets the ramp length and jumps to the target.
func (s *SmoothedValue) Reset(sampleRate, rampSeconds float64) {
	s.rampSamples = max(int(sampleRate*rampSeconds), 0)
	s.SetCurrentAndTarget(s.target)
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *SmoothedValue) SetCurrentAndTarget(v float64) {
	s.current = v
	s.target = v
	s.step = 0
	s.countdown = 0
}

// SetTarget starts a ramp from the current value to v.
func (s *SmoothedValue) SetTarget(v float64) {
	if core.NearlyEqual(v, s.target, retargetEps) {
		return
	}
	if s.rampSamples <= 0 {
		s.SetCurrentAndTarget(v)
		return
	}
	s.target = v
	s.countdown = s.rampSamples
	s.step = (s.target - s.current) / float64(s.countdown)
}

// Next advances one sample and returns the smoothed value.
func (s *SmoothedValue) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}
	s.countdown--
	if s.countdown > 0 {
		s.current += s.step
	} else {
		s.current = s.target
	}
	return s.current
}

// Current returns the value without advancing.
func (s *SmoothedValue) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *SmoothedValue) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *SmoothedValue) IsSmoothing() bool { return s.countdown > 0 }
