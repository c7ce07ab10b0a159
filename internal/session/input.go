package session

import (
	"fmt"

	"github.com/cwbudde/algo-gate/dsp/signal"
	"github.com/cwbudde/algo-gate/internal/wavio"
)

// OscillatorInput plays one oscillator on both channels.
type OscillatorInput struct {
	osc *signal.Oscillator
}

// NewOscillatorInput wraps osc.
func NewOscillatorInput(osc *signal.Oscillator) *OscillatorInput {
	return &OscillatorInput{osc: osc}
}

// Read implements [Input].
func (in *OscillatorInput) Read(left, right []float64) {
	in.osc.Fill(left)
	copy(right, left)
}

// LoopInput repeats a stereo buffer forever.
type LoopInput struct {
	buf wavio.Stereo
	pos int
}

// NewLoopInput returns an input looping buf.
func NewLoopInput(buf wavio.Stereo) (*LoopInput, error) {
	if buf.Len() == 0 {
		return nil, fmt.Errorf("session: empty loop")
	}
	return &LoopInput{buf: buf}, nil
}

// Read implements [Input].
func (in *LoopInput) Read(left, right []float64) {
	n := min(len(left), len(right))
	total := in.buf.Len()
	for done := 0; done < n; {
		k := min(n-done, total-in.pos)
		copy(left[done:done+k], in.buf.Left[in.pos:in.pos+k])
		copy(right[done:done+k], in.buf.Right[in.pos:in.pos+k])
		done += k
		in.pos = (in.pos + k) % total
	}
}
