package rhythm

import (
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/spectrum"
	"github.com/cwbudde/algo-gate/dsp/window"
)

const (
	defaultFollowerMs = 1.0
	defaultMinRateHz  = 0.25
	defaultMaxRateHz  = 64.0
	defaultFloorDB    = -120.0

	// envelopeRateHz is the target rate of the decimated envelope.
	envelopeRateHz = 1000.0
)

// Config holds rhythm analysis parameters. Zero fields take defaults.
type Config struct {
	SampleRate float64
	// FollowerMs is the release time of the envelope follower.
	FollowerMs float64
	// FFTSize of the envelope spectrum; rounded up to a power of two and never
	// smaller than the decimated envelope.
	FFTSize int
	// Rate search band for the dominant gating frequency.
	MinRateHz float64
	MaxRateHz float64
	// FloorDB bounds the envelope low level used for the depth estimate.
	FloorDB float64
}

// Result holds rhythm analysis results.
type Result struct {
	// GateRateHz is the dominant envelope modulation frequency.
	GateRateHz float64
	// ModulationDepthDB is the ratio of the envelope's 95th to 5th percentile.
	ModulationDepthDB float64
	// Spectrum is the magnitude spectrum of the windowed, mean-removed
	// envelope, bins [0..FFTSize/2].
	Spectrum []float64
	// BinHz is the frequency spacing of Spectrum.
	BinHz float64
	// EnvelopeRate is the sample rate of the analyzed envelope.
	EnvelopeRate float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.FollowerMs <= 0 {
		cfg.FollowerMs = defaultFollowerMs
	}
	if cfg.MinRateHz <= 0 {
		cfg.MinRateHz = defaultMinRateHz
	}
	if cfg.MaxRateHz <= cfg.MinRateHz {
		cfg.MaxRateHz = max(defaultMaxRateHz, 2*cfg.MinRateHz)
	}
	if cfg.FloorDB >= 0 {
		cfg.FloorDB = defaultFloorDB
	}
	return cfg
}

// Analyze estimates the gating rate and depth of samples.
func Analyze(samples []float64, cfg Config) (Result, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return Result{}, fmt.Errorf("rhythm: sample rate must be positive and finite: %f", cfg.SampleRate)
	}
	cfg = normalizeConfig(cfg)

	decimation := max(int(cfg.SampleRate/envelopeRateHz), 1)
	env := Envelope(samples, cfg.SampleRate, cfg.FollowerMs, decimation)
	if len(env) < 4 {
		return Result{}, fmt.Errorf("rhythm: signal too short: %d samples", len(samples))
	}
	envRate := cfg.SampleRate / float64(decimation)

	res := Result{EnvelopeRate: envRate}
	res.ModulationDepthDB = modulationDepth(env, cfg.FloorDB)

	spectrum, err := envelopeSpectrum(env, cfg.FFTSize)
	if err != nil {
		return Result{}, err
	}
	res.Spectrum = spectrum
	res.BinHz = envRate / float64(2*(len(spectrum)-1))
	res.GateRateHz = peakFrequency(spectrum, res.BinHz, cfg.MinRateHz, cfg.MaxRateHz)

	return res, nil
}

// Envelope rectifies samples, smooths them with an instant-attack follower
// of the given release time and keeps every decimation-th value.
func Envelope(samples []float64, sampleRate, releaseMs float64, decimation int) []float64 {
	decimation = max(decimation, 1)
	coeff := math.Exp(-1 / core.SafeDivisor(releaseMs/1000*sampleRate))

	out := make([]float64, 0, len(samples)/decimation+1)
	level := 0.0
	for i, x := range samples {
		a := math.Abs(x)
		if a > level {
			level = a
		} else {
			level = a + coeff*(level-a)
		}
		if i%decimation == 0 {
			out = append(out, level)
		}
	}
	return out
}

func modulationDepth(env []float64, floorDB float64) float64 {
	sorted := slices.Clone(env)
	slices.Sort(sorted)

	hi := sorted[int(0.95*float64(len(sorted)-1))]
	lo := sorted[int(0.05*float64(len(sorted)-1))]
	if hi <= 0 {
		return 0
	}

	floor := core.DBToLinear(floorDB)
	return core.LinearToDB(hi) - core.LinearToDB(max(lo, floor))
}

func envelopeSpectrum(env []float64, fftSize int) ([]float64, error) {
	n := nextPowerOf2(max(fftSize, len(env)))

	mean := 0.0
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))

	centered := make([]float64, len(env))
	for i, v := range env {
		centered[i] = v - mean
	}
	window.Apply(window.TypeHann, centered, window.WithPeriodic())

	in := make([]complex128, n)
	for i, v := range centered {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("rhythm: fft plan: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("rhythm: fft: %w", err)
	}

	mag := make([]float64, n/2+1)
	spectrum.MagnitudeInto(mag, out)
	return mag, nil
}

// peakFrequency returns the parabolically interpolated frequency of the
// largest bin in [minHz, maxHz], or 0 when the band is empty or silent.
func peakFrequency(mag []float64, binHz, minHz, maxHz float64) float64 {
	lo := max(int(math.Ceil(minHz/binHz)), 1)
	hi := min(int(math.Floor(maxHz/binHz)), len(mag)-2)
	if lo > hi {
		return 0
	}

	best := lo
	for k := lo + 1; k <= hi; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}
	if mag[best] == 0 {
		return 0
	}

	a, b, c := mag[best-1], mag[best], mag[best+1]
	shift := 0.0
	if den := a - 2*b + c; den != 0 {
		shift = core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
	}
	return (float64(best) + shift) * binHz
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
