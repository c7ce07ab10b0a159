package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
)

type options struct {
	debug      bool
	statePath  string
	saveState  bool
	seed       uint64
	sampleRate float64
	blockSize  int
	bpm        float64
}

var (
	opts   options
	params *paramFlags
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gatebox",
	Short: "Tempo-synced rhythmic trance gate",
	Long: `gatebox chops audio into tempo-synced rhythmic pulses.

Each step of a 4 to 16 step pattern opens or closes the gate with an
attack/hold/release envelope. Swing, humanize and velocity loosen the
rhythm; depth and mix blend the gated signal with the dry one.

Every gate parameter is available as a flag. A state file saved with
--state and --save-state restores all of them at once.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(opts.debug)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.StringVar(&opts.statePath, "state", "", "JSON parameter state file to load")
	pf.BoolVar(&opts.saveState, "save-state", false, "write the final parameters back to --state")
	pf.Uint64Var(&opts.seed, "seed", 0, "random seed for humanize and velocity (0 picks one)")
	pf.Float64Var(&opts.sampleRate, "sample-rate", 48000, "sample rate for generated input and playback")
	pf.IntVar(&opts.blockSize, "block-size", 512, "processing block size in frames")
	pf.Float64Var(&opts.bpm, "bpm", 120, "tempo in beats per minute")
	params = newParamFlags(pf)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: debug})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// processorConfig returns the block configuration at sampleRate.
func processorConfig(sampleRate float64) (core.ProcessorConfig, error) {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(opts.blockSize),
	)
	if cfg.SampleRate != sampleRate {
		return cfg, fmt.Errorf("invalid sample rate %g", sampleRate)
	}
	if cfg.BlockSize != opts.blockSize {
		return cfg, fmt.Errorf("invalid block size %d", opts.blockSize)
	}
	return cfg, cfg.Validate()
}

func processorOptions() []gate.Option {
	if opts.seed == 0 {
		return nil
	}
	return []gate.Option{gate.WithSeed(opts.seed)}
}
