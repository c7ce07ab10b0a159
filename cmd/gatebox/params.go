package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

// paramFlags holds one command-line flag per gate parameter.
type paramFlags struct {
	numbers  map[param.ID]*float64
	pattern  string
	rate     string
	stepData string
	bypass   bool
}

func flagName(id param.ID) string {
	if id == param.StepData {
		return "step-data"
	}
	return id.String()
}

func newParamFlags(fs *pflag.FlagSet) *paramFlags {
	pf := &paramFlags{numbers: make(map[param.ID]*float64)}
	defaults := param.Defaults()

	for _, s := range param.Specs() {
		switch s.ID {
		case param.Pattern:
			fs.StringVar(&pf.pattern, "pattern", param.PatternChoices[defaults.Pattern],
				"pattern preset name or index, hex mask (0xF0F0) or step string (x..x)")
		case param.Rate:
			fs.StringVar(&pf.rate, "rate", param.RateChoices[defaults.Rate],
				"step rate ("+strings.Join(param.RateChoices, ", ")+")")
		case param.StepData:
			fs.StringVar(&pf.stepData, "step-data", fmt.Sprintf("%#04x", defaults.StepData),
				"custom step mask used by the Custom pattern")
		case param.Bypass:
			fs.BoolVar(&pf.bypass, "bypass", false, "pass audio through unchanged")
		default:
			v := new(float64)
			fs.Float64Var(v, flagName(s.ID), s.Default, usage(s))
			pf.numbers[s.ID] = v
		}
	}
	return pf
}

func usage(s param.Spec) string {
	u := fmt.Sprintf("%s (%g..%g)", s.Label, s.Range.Min, s.Range.Max)
	if unit := unitOf(s.ID); unit != "" {
		u += " " + unit
	}
	return u
}

func unitOf(id param.ID) string {
	switch id {
	case param.Attack, param.Release:
		return "ms"
	case param.Hold, param.Swing, param.Humanize, param.Velocity, param.Depth, param.Mix:
		return "%"
	case param.Output:
		return "dB"
	}
	return ""
}

// apply writes every flag the user set on fs into store. Flags left at their
// defaults do not override a restored state.
func (pf *paramFlags) apply(fs *pflag.FlagSet, store *param.Store) error {
	for id, v := range pf.numbers {
		if fs.Changed(flagName(id)) {
			store.Set(id, *v)
		}
	}
	if fs.Changed("bypass") {
		store.Set(param.Bypass, boolValue(pf.bypass))
	}
	if fs.Changed("rate") {
		idx, err := parseChoice(param.Rate, pf.rate)
		if err != nil {
			return err
		}
		store.Set(param.Rate, float64(idx))
	}
	if fs.Changed("step-data") {
		mask, err := gate.ParsePattern(pf.stepData)
		if err != nil {
			return fmt.Errorf("step-data: %w", err)
		}
		store.Set(param.StepData, float64(mask))
	}
	if fs.Changed("pattern") {
		return applyPattern(pf.pattern, store)
	}
	return nil
}

// applyPattern selects a named or numbered pattern, or switches to the
// custom pattern with the given mask.
func applyPattern(s string, store *param.Store) error {
	if idx, err := parseChoice(param.Pattern, s); err == nil {
		store.Set(param.Pattern, float64(idx))
		return nil
	}
	mask, err := gate.ParsePattern(s)
	if err != nil {
		return fmt.Errorf("pattern: %w", err)
	}
	store.Set(param.Pattern, param.PatternCustom)
	store.Set(param.StepData, float64(mask))
	return nil
}

// parseChoice accepts a choice name or its index.
func parseChoice(id param.ID, s string) (int, error) {
	if idx, err := param.ChoiceIndex(id, s); err == nil {
		return idx, nil
	}
	spec, _ := param.Lookup(id)
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 || idx >= len(spec.Choices) {
		return 0, fmt.Errorf("%s: unknown choice %q", spec.Name, s)
	}
	return idx, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// loadStore builds the parameter store from the state file, if any, and the
// parameter flags, which take precedence.
func loadStore(fs *pflag.FlagSet) (*param.Store, error) {
	store := param.NewStore()
	if opts.statePath != "" {
		data, err := os.ReadFile(opts.statePath)
		switch {
		case err == nil:
			if err := store.Restore(data); err != nil {
				return nil, fmt.Errorf("load state %s: %w", opts.statePath, err)
			}
			logger.Debug("state loaded", "path", opts.statePath)
		case os.IsNotExist(err) && opts.saveState:
			logger.Debug("state file not found, starting from defaults", "path", opts.statePath)
		default:
			return nil, fmt.Errorf("load state: %w", err)
		}
	}
	if err := params.apply(fs, store); err != nil {
		return nil, err
	}
	return store, nil
}

// saveStore writes the store to the state file when --save-state is set.
func saveStore(store *param.Store) error {
	if opts.statePath == "" || !opts.saveState {
		return nil
	}
	data, err := store.Save()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.WriteFile(opts.statePath, data, 0o644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	logger.Info("state saved", "path", opts.statePath)
	return nil
}
