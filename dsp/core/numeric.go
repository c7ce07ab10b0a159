package core

import "math"

const (
	defaultEpsilon = 1e-12

	// DivisorEpsilon is the smallest magnitude SafeDivisor lets through.
	DivisorEpsilon = 1e-9
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampOr limits value to [min, max] and substitutes def for NaN.
func ClampOr(value, min, max, def float64) float64 {
	if math.IsNaN(value) {
		return def
	}

	return Clamp(value, min, max)
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// SafeDivisor floors a positive denominator to DivisorEpsilon.
// NaN and non-positive values also map to DivisorEpsilon.
func SafeDivisor(x float64) float64 {
	if !(x > DivisorEpsilon) {
		return DivisorEpsilon
	}

	return x
}

// Wrap reduces x into [0, period) for positive periods.
func Wrap(x, period float64) float64 {
	if period <= 0 || !IsFinite(x) {
		return 0
	}

	x = math.Mod(x, period)
	if x < 0 {
		x += period
	}

	// Mod of a tiny negative value may round up to period itself.
	if x >= period {
		x = 0
	}

	return x
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
