// Package spectrum turns complex FFT output into magnitude spectra.
package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

// Magnitude returns |X[k]| for each bin of in, or nil for empty input.
// Real and imaginary parts are split into pooled scratch memory, so in steady
// state only the output slice is allocated.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	MagnitudeInto(out, in)
	return out
}

// MagnitudeInto writes |X[k]| into dst for the first min(len(dst), len(in))
// bins and returns that count.
func MagnitudeInto(dst []float64, in []complex128) int {
	n := min(len(dst), len(in))
	if n == 0 {
		return 0
	}

	buf := scratchPool.Get().(*scratchBuf)
	if cap(buf.data) < 2*n {
		buf.data = make([]float64, 2*n)
	}
	re, im := buf.data[:n], buf.data[n:2*n]
	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst[:n], re, im)
	scratchPool.Put(buf)
	return n
}
