package gate

import (
	"math"
	"sync/atomic"
)

// Snapshot is the per-block state exposed to observers.
type Snapshot struct {
	CurrentStep int
	GateLevel   float64 // average envelope value over the block
	OutputLevel float64 // peak absolute output sample over the block
	StepPattern uint16  // mask in effect for the block
}

// VisualizerTap publishes a [Snapshot] from the audio goroutine and lets any
// other goroutine read it. Every field is atomic on its own; a reader may
// see fields from two consecutive blocks.
type VisualizerTap struct {
	currentStep atomic.Int32
	gateLevel   atomic.Uint64
	outputLevel atomic.Uint64
	stepPattern atomic.Uint32
}

// NewVisualizerTap returns a tap reporting an all-on pattern.
func NewVisualizerTap() *VisualizerTap {
	v := &VisualizerTap{}
	v.stepPattern.Store(uint32(PatternAll))
	return v
}

// Publish stores s.
func (v *VisualizerTap) Publish(s Snapshot) {
	v.currentStep.Store(int32(s.CurrentStep))
	v.gateLevel.Store(math.Float64bits(s.GateLevel))
	v.outputLevel.Store(math.Float64bits(s.OutputLevel))
	v.stepPattern.Store(uint32(s.StepPattern))
}

// Snapshot loads every field.
func (v *VisualizerTap) Snapshot() Snapshot {
	return Snapshot{
		CurrentStep: v.CurrentStep(),
		GateLevel:   v.GateLevel(),
		OutputLevel: v.OutputLevel(),
		StepPattern: v.StepPattern(),
	}
}

// CurrentStep returns the step under the transport at the end of the last block.
func (v *VisualizerTap) CurrentStep() int { return int(v.currentStep.Load()) }

// GateLevel returns the last block's average envelope value.
func (v *VisualizerTap) GateLevel() float64 { return math.Float64frombits(v.gateLevel.Load()) }

// OutputLevel returns the last block's output peak.
func (v *VisualizerTap) OutputLevel() float64 { return math.Float64frombits(v.outputLevel.Load()) }

// StepPattern returns the last block's step mask.
func (v *VisualizerTap) StepPattern() uint16 { return uint16(v.stepPattern.Load()) }
