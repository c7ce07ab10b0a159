package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// PeakAbs returns the largest absolute value in buf.
func PeakAbs(buf []float64) float64 {
	peak := 0.0
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Interleave writes left/right frames into dst as L,R pairs and returns the frame count.
func Interleave(dst, left, right []float64) int {
	n := min(len(left), len(right), len(dst)/2)
	for i := 0; i < n; i++ {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return n
}

// Deinterleave splits L,R pairs from src into left and right and returns the frame count.
func Deinterleave(left, right, src []float64) int {
	n := min(len(left), len(right), len(src)/2)
	for i := 0; i < n; i++ {
		left[i] = src[2*i]
		right[i] = src[2*i+1]
	}
	return n
}
