package gate

import (
	"math"

	"github.com/cwbudde/algo-gate/dsp/core"
)

const (
	defaultBPM      = 120.0
	defaultSteps    = 16
	defaultRate     = 3
	minSteps        = 4
	maxRateIndex    = 5
	maxEarlySteps   = 0.1 + 1e-9
	maxLateSteps    = 0.6 + 1e-9
	noStepTriggered = -1
)

// HostPosition is the transport information a host reports for one block.
// Either field may be absent.
type HostPosition struct {
	BPM    float64
	HasBPM bool
	PPQ    float64 // musical position in quarter notes
	HasPPQ bool
}

// FreeRunning reports no host information; the internal clock keeps running.
func FreeRunning() HostPosition { return HostPosition{} }

// AtTempo reports a tempo without a position.
func AtTempo(bpm float64) HostPosition {
	return HostPosition{BPM: bpm, HasBPM: true}
}

// At reports both tempo and musical position.
func At(bpm, ppq float64) HostPosition {
	return HostPosition{BPM: bpm, HasBPM: true, PPQ: ppq, HasPPQ: true}
}

// StepsPerBeat converts a rate index (0 = 1/1 … 5 = 1/32) to steps per
// quarter note.
func StepsPerBeat(rateIndex int) float64 {
	rateIndex = min(max(rateIndex, 0), maxRateIndex)
	return float64(int(1) << rateIndex)
}

// Transport turns host tempo and position into a fractional step clock and
// decides when step onsets fire.
//
// The position is kept in units of steps in [0, numSteps). It follows the
// host position whenever one is reported and otherwise advances by
// 1/samplesPerStep per sample.
type Transport struct {
	sampleRate     float64
	samplesPerBeat float64
	stepsPerBeat   float64
	samplesPerStep float64
	numSteps       int
	position       float64
	lastStep       int
}

// NewTransport returns a transport at 120 BPM, 16 steps of 1/8.
func NewTransport(sampleRate float64) *Transport {
	t := &Transport{}
	t.Reset(sampleRate)
	return t
}

// Reset rewinds to step zero and forgets the last fired step.
func (t *Transport) Reset(sampleRate float64) {
	t.sampleRate = core.SafeDivisor(sampleRate)
	t.samplesPerBeat = t.sampleRate * 60 / defaultBPM
	t.stepsPerBeat = StepsPerBeat(defaultRate)
	t.samplesPerStep = core.SafeDivisor(t.samplesPerBeat / t.stepsPerBeat)
	t.numSteps = defaultSteps
	t.position = 0
	t.lastStep = noStepTriggered
}

// BeginBlock applies the per-block rate, step count and host information.
// An invalid tempo keeps the last valid one; a host position overrides the
// free-running position.
func (t *Transport) BeginBlock(host HostPosition, rateIndex, numSteps int) {
	numSteps = min(max(numSteps, minSteps), MaxSteps)
	t.stepsPerBeat = StepsPerBeat(rateIndex)

	if host.HasBPM && host.BPM > 0 && core.IsFinite(host.BPM) {
		t.samplesPerBeat = t.sampleRate * 60 / host.BPM
	}
	t.samplesPerStep = core.SafeDivisor(t.samplesPerBeat / t.stepsPerBeat)

	if numSteps != t.numSteps {
		t.numSteps = numSteps
		t.position = core.Wrap(t.position, float64(numSteps))
	}

	if host.HasPPQ && core.IsFinite(host.PPQ) {
		t.position = core.Wrap(host.PPQ*t.stepsPerBeat, float64(t.numSteps))
	}
}

// Advance moves the clock forward by one sample.
func (t *Transport) Advance() {
	n := float64(t.numSteps)
	t.position += 1 / t.samplesPerStep
	if t.position >= n {
		t.position -= n
		if t.position >= n {
			t.position = core.Wrap(t.position, n)
		}
	}
}

// Skip moves the clock forward by samples without detecting onsets.
func (t *Transport) Skip(samples int) {
	t.position = core.Wrap(t.position+float64(samples)/t.samplesPerStep, float64(t.numSteps))
}

// Position returns the fractional step position in [0, NumSteps()).
func (t *Transport) Position() float64 { return t.position }

// Step returns the integer step under the current position.
func (t *Transport) Step() int {
	return int(math.Floor(t.position)) % t.numSteps
}

// LastStep returns the most recently fired step, or -1 before the first.
func (t *Transport) LastStep() int { return t.lastStep }

// NextStep returns the step whose onset is expected next.
func (t *Transport) NextStep() int {
	if t.lastStep < 0 || t.lastStep >= t.numSteps {
		return t.Step()
	}
	return (t.lastStep + 1) % t.numSteps
}

// NumSteps returns the active cycle length.
func (t *Transport) NumSteps() int { return t.numSteps }

// SamplesPerBeat returns the length of a quarter note in samples.
func (t *Transport) SamplesPerBeat() float64 { return t.samplesPerBeat }

// SamplesPerStep returns the length of one step in samples.
func (t *Transport) SamplesPerStep() float64 { return t.samplesPerStep }

// CheckOnset reports whether a step onset fires at the current position.
//
// offset delays (positive) or advances (negative) the onset of the next
// step, in steps. With a zero offset an onset fires exactly when the integer
// step changes. If the position has left the window an onset could explain
// (first call, host seek or loop, step-count change), the current step fires
// immediately and scheduling restarts from it.
func (t *Transport) CheckOnset(offset float64) (step int, fired bool) {
	if t.lastStep < 0 || t.lastStep >= t.numSteps {
		t.lastStep = t.Step()
		return t.lastStep, true
	}

	since := wrapSigned(t.position-float64(t.lastStep), float64(t.numSteps))
	if since < -maxEarlySteps || since >= 1+maxLateSteps {
		t.lastStep = t.Step()
		return t.lastStep, true
	}

	if since-1 >= offset {
		t.lastStep = (t.lastStep + 1) % t.numSteps
		return t.lastStep, true
	}

	return 0, false
}

// wrapSigned reduces x into [-period/2, period/2).
func wrapSigned(x, period float64) float64 {
	return x - period*math.Floor(x/period+0.5)
}
