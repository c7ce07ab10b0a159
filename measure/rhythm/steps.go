package rhythm

import (
	"math"

	"github.com/cwbudde/algo-gate/dsp/gate"
)

// StepLevels folds samples onto a grid of steps slots, each samplesPerStep
// long, and returns the mean absolute value per slot across all cycles.
// offset is the sample index of step 0 within samples; it may be negative.
// Slots that receive no samples report 0.
func StepLevels(samples []float64, samplesPerStep float64, steps, offset int) []float64 {
	if steps <= 0 || !(samplesPerStep > 0) {
		return nil
	}

	sums := make([]float64, steps)
	counts := make([]int, steps)
	for i, x := range samples {
		slot := int(math.Floor(float64(i-offset)/samplesPerStep)) % steps
		if slot < 0 {
			slot += steps
		}
		sums[slot] += math.Abs(x)
		counts[slot]++
	}

	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		}
	}
	return sums
}

// DetectPattern turns per-step levels into a pattern mask. A step is on when
// its level reaches threshold times the loudest step. At most
// [gate.MaxSteps] levels are read.
func DetectPattern(levels []float64, threshold float64) gate.Pattern {
	peak := 0.0
	for _, l := range levels {
		peak = math.Max(peak, l)
	}
	if peak == 0 {
		return 0
	}

	var p gate.Pattern
	for i, l := range levels {
		if i >= gate.MaxSteps {
			break
		}
		if l >= threshold*peak {
			p |= 1 << (gate.MaxSteps - 1 - i)
		}
	}
	return p
}

// MatchPreset returns the first built-in preset whose first steps steps
// equal those of mask.
func MatchPreset(mask gate.Pattern, steps int) (int, bool) {
	steps = min(max(steps, 1), gate.MaxSteps)
	keep := gate.Pattern(0xFFFF << (gate.MaxSteps - steps))
	for i := 0; i < gate.NumPresets; i++ {
		p, _ := gate.Preset(i)
		if p&keep == mask&keep {
			return i, true
		}
	}
	return 0, false
}
