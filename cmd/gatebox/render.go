package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
	"github.com/cwbudde/algo-gate/internal/hostsim"
	"github.com/cwbudde/algo-gate/internal/session"
	"github.com/cwbudde/algo-gate/internal/wavio"
)

var renderFlags struct {
	source   sourceFlags
	start    float64
	tail     bool
	bitDepth int
}

var renderCmd = &cobra.Command{
	Use:   "render [in.wav] out.wav",
	Short: "Gate a WAV file or a generated signal offline",
	Long: `Render runs the gate over a stereo WAV file and writes the result.

With a single argument the input is a generated oscillator (see --wave,
--freq, --amplitude and --duration) at --sample-rate. The simulated host
transport plays from --start quarter notes at --bpm.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

func init() {
	fs := renderCmd.Flags()
	renderFlags.source.register(fs, true)
	fs.Float64Var(&renderFlags.start, "start", 0, "host position of the first frame in quarter notes")
	fs.BoolVar(&renderFlags.tail, "tail", true, "append the gate's release tail")
	fs.IntVar(&renderFlags.bitDepth, "bit-depth", 24, "output bit depth (16 or 24)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	store, err := loadStore(cmd.Flags())
	if err != nil {
		return err
	}

	var (
		in         wavio.Stereo
		sampleRate int
		outPath    = args[len(args)-1]
	)
	if len(args) == 2 {
		in, sampleRate, err = wavio.Read(args[0])
		if err != nil {
			return err
		}
		logger.Debug("input loaded", "path", args[0], "frames", in.Len(), "sampleRate", sampleRate)
	} else {
		sampleRate = int(math.Round(opts.sampleRate))
		cfg, err := processorConfig(float64(sampleRate))
		if err != nil {
			return err
		}
		in, err = renderFlags.source.generate(cfg)
		if err != nil {
			return err
		}
		logger.Debug("input generated", "wave", renderFlags.source.wave, "frames", in.Len())
	}

	out, err := renderGate(in, sampleRate, store, renderFlags.start, renderFlags.tail)
	if err != nil {
		return err
	}
	if err := wavio.Write(outPath, out, sampleRate, renderFlags.bitDepth); err != nil {
		return err
	}

	v := store.Load()
	logger.Info("rendered",
		"path", outPath,
		"seconds", fmt.Sprintf("%.2f", out.Duration(sampleRate)),
		"pattern", param.PatternChoices[v.Pattern],
		"rate", param.RateChoices[v.Rate],
		"bpm", opts.bpm,
	)
	return saveStore(store)
}

// renderGate returns a gated copy of in. With tail set, the output is
// extended by the processor's tail so the last release is not cut.
func renderGate(in wavio.Stereo, sampleRate int, store *param.Store, startPPQ float64, tail bool) (wavio.Stereo, error) {
	cfg, err := processorConfig(float64(sampleRate))
	if err != nil {
		return wavio.Stereo{}, err
	}

	host, err := hostsim.New(cfg.SampleRate, opts.bpm)
	if err != nil {
		return wavio.Stereo{}, err
	}
	host.Seek(startPPQ)
	host.Play()

	sess, err := session.New(cfg, store, host, nil, processorOptions()...)
	if err != nil {
		return wavio.Stereo{}, err
	}

	n := in.Len()
	if tail {
		n += int(math.Ceil(gate.TailSeconds * cfg.SampleRate))
	}
	out := wavio.NewStereo(n)
	copy(out.Left, in.Left[:in.Len()])
	copy(out.Right, in.Right[:in.Len()])

	sess.Process(out.Left, out.Right)
	return out, nil
}
