package param

import "math"

// Values is a plain snapshot of every parameter, read once per block.
// Percent parameters keep their 0..100 scale.
type Values struct {
	Pattern   int
	Steps     int
	Rate      int
	StepData  uint16
	AttackMs  float64
	HoldPct   float64
	ReleaseMs float64
	Curve     float64
	Swing     float64
	Humanize  float64
	Velocity  float64
	Depth     float64
	Mix       float64
	OutputDB  float64
	Bypass    bool
}

// Defaults returns the declared default of every parameter.
func Defaults() Values {
	var v Values
	for _, s := range specs {
		v = v.With(s.ID, s.Default)
	}
	return v
}

// Get returns the plain value of id.
func (v Values) Get(id ID) float64 {
	switch id {
	case Pattern:
		return float64(v.Pattern)
	case Steps:
		return float64(v.Steps)
	case Rate:
		return float64(v.Rate)
	case StepData:
		return float64(v.StepData)
	case Attack:
		return v.AttackMs
	case Hold:
		return v.HoldPct
	case Release:
		return v.ReleaseMs
	case Curve:
		return v.Curve
	case Swing:
		return v.Swing
	case Humanize:
		return v.Humanize
	case Velocity:
		return v.Velocity
	case Depth:
		return v.Depth
	case Mix:
		return v.Mix
	case Output:
		return v.OutputDB
	case Bypass:
		if v.Bypass {
			return 1
		}
		return 0
	}
	return 0
}

// With returns a copy of v with id set to the sanitized value x.
func (v Values) With(id ID, x float64) Values {
	x = Sanitize(id, x)
	switch id {
	case Pattern:
		v.Pattern = int(x)
	case Steps:
		v.Steps = int(x)
	case Rate:
		v.Rate = int(x)
	case StepData:
		v.StepData = uint16(x)
	case Attack:
		v.AttackMs = x
	case Hold:
		v.HoldPct = x
	case Release:
		v.ReleaseMs = x
	case Curve:
		v.Curve = x
	case Swing:
		v.Swing = x
	case Humanize:
		v.Humanize = x
	case Velocity:
		v.Velocity = x
	case Depth:
		v.Depth = x
	case Mix:
		v.Mix = x
	case Output:
		v.OutputDB = x
	case Bypass:
		v.Bypass = x > 0.5
	}
	return v
}

// Sanitized clamps every field of v into its declared range.
func (v Values) Sanitized() Values {
	for i := 0; i < Count; i++ {
		id := ID(i)
		v = v.With(id, v.Get(id))
	}
	return v
}

// Equal reports whether both snapshots hold the same values.
func (v Values) Equal(o Values) bool {
	for i := 0; i < Count; i++ {
		a, b := v.Get(ID(i)), o.Get(ID(i))
		if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
			return false
		}
	}
	return true
}
