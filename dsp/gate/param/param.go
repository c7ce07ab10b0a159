package param

import (
	"fmt"
	"math"
	"strings"
)

// ID identifies one gate parameter.
type ID int

// Parameter identifiers, in declaration order.
const (
	Pattern ID = iota
	Steps
	Rate
	StepData
	Attack
	Hold
	Release
	Curve
	Swing
	Humanize
	Velocity
	Depth
	Mix
	Output
	Bypass

	// Count is the number of declared parameters.
	Count int = iota
)

// Kind describes how a parameter value is quantized.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindChoice
	KindBool
)

// PatternCustom is the pattern choice that selects the step-data mask.
const PatternCustom = 8

// PatternChoices lists the pattern selector names; the first eight are presets.
var PatternChoices = []string{
	"All", "Alternate", "Quarter", "Half", "Trance", "Sidechain", "Syncopated", "Stutter", "Custom",
}

// RateChoices lists the step-rate names; index i means 2^i steps per beat.
var RateChoices = []string{"1/1", "1/2", "1/4", "1/8", "1/16", "1/32"}

// Range maps between plain values and a normalized [0, 1] control position.
// Skew values below 1 spend more of the control travel on the low end.
type Range struct {
	Min      float64
	Max      float64
	Interval float64
	Skew     float64
}

// Clamp limits v to the range and snaps it to the interval grid.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Interval > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Interval)*r.Interval
		// Drop the representation error the interval multiply leaves behind.
		v = math.Round(v*1e9) / 1e9
		if v > r.Max {
			v = r.Max
		}
	}
	return v
}

// Normalize converts a plain value to a control position in [0, 1].
func (r Range) Normalize(v float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	p := (r.Clamp(v) - r.Min) / (r.Max - r.Min)
	if r.Skew > 0 && r.Skew != 1 && p > 0 {
		p = math.Pow(p, r.Skew)
	}
	return p
}

// Denormalize converts a control position in [0, 1] to a plain value.
func (r Range) Denormalize(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	if r.Skew > 0 && r.Skew != 1 && p > 0 {
		p = math.Exp(math.Log(p) / r.Skew)
	}
	return r.Clamp(r.Min + p*(r.Max-r.Min))
}

// Spec declares one parameter.
type Spec struct {
	ID      ID
	Name    string
	Label   string
	Kind    Kind
	Range   Range
	Default float64
	Choices []string
}

var specs = [Count]Spec{
	{ID: Pattern, Name: "pattern", Label: "Pattern", Kind: KindChoice,
		Range: Range{Min: 0, Max: PatternCustom, Interval: 1, Skew: 1}, Default: 4, Choices: PatternChoices},
	{ID: Steps, Name: "steps", Label: "Steps", Kind: KindInt,
		Range: Range{Min: 4, Max: 16, Interval: 1, Skew: 1}, Default: 16},
	{ID: Rate, Name: "rate", Label: "Rate", Kind: KindChoice,
		Range: Range{Min: 0, Max: 5, Interval: 1, Skew: 1}, Default: 3, Choices: RateChoices},
	{ID: StepData, Name: "stepData", Label: "Step Data", Kind: KindInt,
		Range: Range{Min: 0, Max: 65535, Interval: 1, Skew: 1}, Default: 65535},
	{ID: Attack, Name: "attack", Label: "Attack", Kind: KindFloat,
		Range: Range{Min: 0.1, Max: 100, Interval: 0.1, Skew: 0.5}, Default: 5},
	{ID: Hold, Name: "hold", Label: "Hold", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 50},
	{ID: Release, Name: "release", Label: "Release", Kind: KindFloat,
		Range: Range{Min: 0.1, Max: 500, Interval: 0.1, Skew: 0.5}, Default: 50},
	{ID: Curve, Name: "curve", Label: "Curve", Kind: KindFloat,
		Range: Range{Min: -100, Max: 100, Interval: 0.1, Skew: 1}, Default: 0},
	{ID: Swing, Name: "swing", Label: "Swing", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 0},
	{ID: Humanize, Name: "humanize", Label: "Humanize", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 0},
	{ID: Velocity, Name: "velocity", Label: "Velocity", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 0},
	{ID: Depth, Name: "depth", Label: "Depth", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 100},
	{ID: Mix, Name: "mix", Label: "Mix", Kind: KindFloat,
		Range: Range{Min: 0, Max: 100, Interval: 0.1, Skew: 1}, Default: 100},
	{ID: Output, Name: "output", Label: "Output", Kind: KindFloat,
		Range: Range{Min: -24, Max: 12, Interval: 0.1, Skew: 1}, Default: 0},
	{ID: Bypass, Name: "bypass", Label: "Bypass", Kind: KindBool,
		Range: Range{Min: 0, Max: 1, Interval: 1, Skew: 1}, Default: 0},
}

// Specs returns all parameter declarations in ID order.
func Specs() []Spec {
	out := make([]Spec, Count)
	copy(out, specs[:])
	return out
}

// Lookup returns the declaration for id.
func Lookup(id ID) (Spec, bool) {
	if id < 0 || int(id) >= Count {
		return Spec{}, false
	}
	return specs[id], true
}

// ByName resolves a parameter name (case-insensitive) to its ID.
func ByName(name string) (ID, error) {
	for _, s := range specs {
		if strings.EqualFold(s.Name, name) {
			return s.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter %q", name)
}

// String returns the parameter name.
func (id ID) String() string {
	if s, ok := Lookup(id); ok {
		return s.Name
	}
	return fmt.Sprintf("param(%d)", int(id))
}

// Sanitize clamps v into the declared range of id. NaN maps to the default.
func Sanitize(id ID, v float64) float64 {
	s, ok := Lookup(id)
	if !ok {
		return 0
	}
	if math.IsNaN(v) {
		return s.Default
	}
	if s.Kind == KindBool {
		if v > 0.5 {
			return 1
		}
		return 0
	}
	return s.Range.Clamp(v)
}

// ChoiceIndex resolves a choice name such as "Trance" or "1/16" for id.
func ChoiceIndex(id ID, name string) (int, error) {
	s, ok := Lookup(id)
	if !ok || s.Kind != KindChoice {
		return 0, fmt.Errorf("parameter %s has no choices", id)
	}
	for i, c := range s.Choices {
		if strings.EqualFold(c, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s choice %q", s.Name, name)
}
