package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// StereoPair returns independent copies of src for the left and right channels.
func StereoPair(src []float64) (left, right []float64) {
	left = append([]float64(nil), src...)
	right = append([]float64(nil), src...)
	return left, right
}

// SegmentPeaks splits buf into consecutive segments of segLen samples and
// returns the peak absolute value of each complete segment.
func SegmentPeaks(buf []float64, segLen int) []float64 {
	if segLen <= 0 {
		return nil
	}
	out := make([]float64, 0, len(buf)/segLen)
	for start := 0; start+segLen <= len(buf); start += segLen {
		peak := 0.0
		for _, v := range buf[start : start+segLen] {
			peak = math.Max(peak, math.Abs(v))
		}
		out = append(out, peak)
	}
	return out
}

// SegmentMeans returns the mean absolute value of each complete segment.
func SegmentMeans(buf []float64, segLen int) []float64 {
	if segLen <= 0 {
		return nil
	}
	out := make([]float64, 0, len(buf)/segLen)
	for start := 0; start+segLen <= len(buf); start += segLen {
		sum := 0.0
		for _, v := range buf[start : start+segLen] {
			sum += math.Abs(v)
		}
		out = append(out, sum/float64(segLen))
	}
	return out
}
