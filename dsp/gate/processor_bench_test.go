package gate

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
	"github.com/cwbudde/algo-gate/internal/testutil"
)

// modulatedValues enables every per-step modulator.
func modulatedValues() param.Values {
	v := param.Defaults()
	v.Pattern = 6
	v.Swing = 50
	v.Humanize = 50
	v.Velocity = 50
	v.Depth = 80
	v.Mix = 90
	v.OutputDB = -3
	return v
}

func TestProcessBlockDoesNotAllocate(t *testing.T) {
	tests := []struct {
		name string
		v    param.Values
	}{
		{"modulated", modulatedValues()},
		{"custom pattern", modulatedValues().With(param.Pattern, param.PatternCustom).With(param.StepData, 0x9249)},
		{"bypass", modulatedValues().With(param.Bypass, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t, WithSeed(3))
			left := testutil.DeterministicNoise(1, 0.5, testBlockSize)
			right := testutil.DeterministicNoise(2, 0.5, testBlockSize)

			ppq := 1.0
			allocs := testing.AllocsPerRun(100, func() {
				p.ProcessBlock(left, right, At(120, ppq), tt.v)
				ppq += float64(testBlockSize) / testSampleRate * 2
			})
			if allocs != 0 {
				t.Fatalf("allocs per ProcessBlock = %v, want 0", allocs)
			}
		})
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	for _, n := range []int{64, 256, 512, 2048} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			cfg := core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithBlockSize(n))
			p, err := NewProcessor(cfg, WithSeed(1))
			if err != nil {
				b.Fatalf("NewProcessor() error = %v", err)
			}
			left := testutil.DeterministicNoise(1, 0.5, n)
			right := testutil.DeterministicNoise(2, 0.5, n)
			v := modulatedValues()
			step := float64(n) / testSampleRate * 2

			b.ReportAllocs()
			b.SetBytes(int64(2 * n * 8))
			b.ResetTimer()

			ppq := 0.0
			for i := 0; i < b.N; i++ {
				p.ProcessBlock(left, right, At(120, ppq), v)
				ppq += step
			}
		})
	}
}

func BenchmarkProcessBlockFreeRunning(b *testing.B) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(testSampleRate), core.WithBlockSize(testBlockSize))
	p, _ := NewProcessor(cfg, WithSeed(1))
	left := testutil.DeterministicNoise(1, 0.5, testBlockSize)
	right := testutil.DeterministicNoise(2, 0.5, testBlockSize)
	v := modulatedValues()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		p.ProcessBlock(left, right, AtTempo(120), v)
	}
}
