package gate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// MaxSteps is the width of a pattern.
const MaxSteps = 16

// NumPresets is the number of built-in patterns.
const NumPresets = 8

// Pattern is a 16-step on/off mask read most-significant bit first:
// step 0 is bit 15.
type Pattern uint16

// Built-in patterns, indexed by the pattern parameter.
const (
	PatternAll        Pattern = 0xFFFF
	PatternAlternate  Pattern = 0xAAAA
	PatternQuarter    Pattern = 0x8888
	PatternHalf       Pattern = 0xF0F0
	PatternTrance     Pattern = 0xEEEE
	PatternSidechain  Pattern = 0xFAFA
	PatternSyncopated Pattern = 0xB6B6
	PatternStutter    Pattern = 0xF8F8
)

var presetPatterns = [NumPresets]Pattern{
	PatternAll,
	PatternAlternate,
	PatternQuarter,
	PatternHalf,
	PatternTrance,
	PatternSidechain,
	PatternSyncopated,
	PatternStutter,
}

// Preset returns the built-in pattern at index i.
func Preset(i int) (Pattern, bool) {
	if i < 0 || i >= NumPresets {
		return 0, false
	}
	return presetPatterns[i], true
}

// PresetName returns the display name of preset i, or "Custom".
func PresetName(i int) string {
	if i < 0 || i >= NumPresets {
		return param.PatternChoices[param.PatternCustom]
	}
	return param.PatternChoices[i]
}

// ResolvePattern returns the preset for selector, or custom when selector
// does not index a preset.
func ResolvePattern(selector int, custom uint16) Pattern {
	if p, ok := Preset(selector); ok {
		return p
	}
	return Pattern(custom)
}

// IsStepOn reports whether step is active in the pattern chosen by selector.
// Callers reduce step modulo their step count first.
func IsStepOn(step, selector int, custom uint16) bool {
	return ResolvePattern(selector, custom).StepOn(step)
}

// StepOn reports whether step (0 = first) is active.
func (p Pattern) StepOn(step int) bool {
	if step < 0 || step >= MaxSteps {
		return false
	}
	return (p>>(MaxSteps-1-step))&1 == 1
}

// ActiveSteps counts the active steps among the first n.
func (p Pattern) ActiveSteps(n int) int {
	count := 0
	for i := 0; i < n && i < MaxSteps; i++ {
		if p.StepOn(i) {
			count++
		}
	}
	return count
}

// Format renders the first n steps as 'x' (on) and '.' (off).
func (p Pattern) Format(n int) string {
	n = min(max(n, 0), MaxSteps)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		if p.StepOn(i) {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// String renders all 16 steps.
func (p Pattern) String() string {
	return p.Format(MaxSteps)
}

// ParsePattern accepts a hex mask ("0xF0F0"), a step string ("x...x..."),
// or a preset name ("half"). A string starting with "0x" is read as hex when
// it parses as one and as steps otherwise.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty pattern")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 16)
		if err == nil {
			return Pattern(v), nil
		}
		// "0x0x..." is also a valid step string.
		if !isStepString(s) {
			return 0, fmt.Errorf("parse pattern %q: %w", s, err)
		}
		return parseSteps(s)
	}

	if idx, err := param.ChoiceIndex(param.Pattern, s); err == nil && idx < NumPresets {
		return presetPatterns[idx], nil
	}

	return parseSteps(s)
}

// parseSteps reads one character per step: 'x', 'X' or '1' for on and '.',
// '-' or '0' for off.
func parseSteps(s string) (Pattern, error) {
	if len(s) > MaxSteps {
		return 0, fmt.Errorf("pattern %q longer than %d steps", s, MaxSteps)
	}
	var p Pattern
	for i, c := range s {
		switch c {
		case 'x', 'X', '1':
			p |= 1 << (MaxSteps - 1 - i)
		case '.', '-', '0':
		default:
			return 0, fmt.Errorf("pattern %q: invalid step character %q", s, c)
		}
	}
	return p, nil
}

func isStepString(s string) bool {
	return strings.Trim(s, "xX1.-0") == ""
}
