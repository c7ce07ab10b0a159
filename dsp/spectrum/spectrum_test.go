package spectrum

import (
	"math"
	"testing"
)

func TestMagnitude(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0, 2i}
	want := []float64{5, math.Sqrt2, 0, 2}

	mag := Magnitude(bins)
	if len(mag) != len(want) {
		t.Fatalf("len=%d, want %d", len(mag), len(want))
	}
	for i := range want {
		if math.Abs(mag[i]-want[i]) > 1e-12 {
			t.Fatalf("mag[%d]=%g, want %g", i, mag[i], want[i])
		}
	}

	if Magnitude(nil) != nil {
		t.Fatal("Magnitude(nil) should be nil")
	}
}

func TestMagnitudeIntoTruncates(t *testing.T) {
	dst := make([]float64, 2)
	if n := MagnitudeInto(dst, []complex128{3 + 4i, 6 + 8i, 1}); n != 2 {
		t.Fatalf("n=%d, want 2", n)
	}
	if dst[0] != 5 || dst[1] != 10 {
		t.Fatalf("dst=%v, want [5 10]", dst)
	}

	big := make([]float64, 4)
	if n := MagnitudeInto(big, []complex128{1i}); n != 1 || big[0] != 1 || big[1] != 0 {
		t.Fatalf("n=%d dst=%v", n, big)
	}
}

func TestMagnitudeIntoScratchReuse(t *testing.T) {
	in := make([]complex128, 256)
	for i := range in {
		in[i] = complex(float64(i), 0)
	}
	dst := make([]float64, len(in))
	MagnitudeInto(dst, in)
	MagnitudeInto(dst[:8], in[:8])
	for i := range 8 {
		if dst[i] != float64(i) {
			t.Fatalf("dst[%d]=%g, want %d", i, dst[i], i)
		}
	}
}
