package main

import (
	"fmt"
	"math"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/signal"
	"github.com/cwbudde/algo-gate/internal/wavio"
)

// sourceFlags configure the test oscillator used when no WAV input is given.
type sourceFlags struct {
	wave      string
	freq      float64
	amplitude float64
	duration  float64
}

func (sf *sourceFlags) register(fs *pflag.FlagSet, withDuration bool) {
	fs.StringVar(&sf.wave, "wave", "saw", "generated input waveform (sine, saw, noise)")
	fs.Float64Var(&sf.freq, "freq", 110, "generated input frequency in Hz")
	fs.Float64Var(&sf.amplitude, "amplitude", 0.5, "generated input peak amplitude")
	if withDuration {
		fs.Float64Var(&sf.duration, "duration", 8, "generated input length in seconds")
	}
}

func (sf *sourceFlags) oscillator(cfg core.ProcessorConfig) (*signal.Oscillator, error) {
	wave, err := signal.ParseWaveform(sf.wave)
	if err != nil {
		return nil, err
	}
	var oscOpts []signal.Option
	if opts.seed != 0 {
		oscOpts = append(oscOpts, signal.WithSeed(opts.seed))
	}
	return signal.NewOscillator(cfg, wave, sf.freq, sf.amplitude, oscOpts...)
}

// generate renders duration seconds of the oscillator on both channels.
func (sf *sourceFlags) generate(cfg core.ProcessorConfig) (wavio.Stereo, error) {
	if !(sf.duration > 0) || math.IsInf(sf.duration, 0) {
		return wavio.Stereo{}, fmt.Errorf("duration must be positive: %g", sf.duration)
	}
	osc, err := sf.oscillator(cfg)
	if err != nil {
		return wavio.Stereo{}, err
	}
	buf := wavio.NewStereo(int(math.Round(sf.duration * cfg.SampleRate)))
	osc.Fill(buf.Left)
	copy(buf.Right, buf.Left)
	return buf, nil
}
