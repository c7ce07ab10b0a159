package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
	"github.com/cwbudde/algo-gate/internal/wavio"
	"github.com/cwbudde/algo-gate/measure/rhythm"
)

var analyzeFlags struct {
	start     float64
	threshold float64
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze file.wav",
	Short: "Measure the gating rhythm of a WAV file",
	Long: `Analyze estimates the dominant gating rate and modulation depth of a file
and folds it onto the step grid given by --bpm, --rate and --steps to
recover the step pattern.

--start is the host position of the first frame in quarter notes, as
passed to render.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	fs := analyzeCmd.Flags()
	fs.Float64Var(&analyzeFlags.start, "start", 0, "host position of the first frame in quarter notes")
	fs.Float64Var(&analyzeFlags.threshold, "threshold", 0.5, "on-step level relative to the loudest step")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	store, err := loadStore(cmd.Flags())
	if err != nil {
		return err
	}
	in, sampleRate, err := wavio.Read(args[0])
	if err != nil {
		return err
	}

	rep, err := analyzeGate(in, sampleRate, store.Load(), analyzeFlags.start, analyzeFlags.threshold)
	if err != nil {
		return err
	}
	return rep.write(os.Stdout)
}

type analysis struct {
	seconds     float64
	stepRateHz  float64
	result      rhythm.Result
	steps       int
	levels      []float64
	pattern     gate.Pattern
	preset      int
	presetFound bool
}

// analyzeGate measures the mid signal of in against the step grid implied
// by v and the --bpm flag.
func analyzeGate(in wavio.Stereo, sampleRate int, v param.Values, startPPQ, threshold float64) (analysis, error) {
	if !(opts.bpm > 0) || math.IsInf(opts.bpm, 0) {
		return analysis{}, fmt.Errorf("bpm must be positive: %g", opts.bpm)
	}

	n := in.Len()
	mid := make([]float64, n)
	for i := range mid {
		mid[i] = 0.5 * (in.Left[i] + in.Right[i])
	}

	res, err := rhythm.Analyze(mid, rhythm.Config{SampleRate: float64(sampleRate)})
	if err != nil {
		return analysis{}, err
	}

	samplesPerBeat := float64(sampleRate) * 60 / opts.bpm
	stepsPerBeat := gate.StepsPerBeat(v.Rate)
	samplesPerStep := samplesPerBeat / stepsPerBeat

	// Sample index of the first step-0 boundary at or before frame 0.
	firstStep := startPPQ * stepsPerBeat
	offset := -int(math.Round(math.Mod(firstStep, float64(v.Steps)) * samplesPerStep))

	levels := rhythm.StepLevels(mid, samplesPerStep, v.Steps, offset)
	pattern := rhythm.DetectPattern(levels, threshold)
	preset, ok := rhythm.MatchPreset(pattern, v.Steps)

	return analysis{
		seconds:     in.Duration(sampleRate),
		stepRateHz:  opts.bpm / 60 * stepsPerBeat,
		result:      res,
		steps:       v.Steps,
		levels:      levels,
		pattern:     pattern,
		preset:      preset,
		presetFound: ok,
	}, nil
}

func (a analysis) write(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Duration\t%.2f s\n", a.seconds)
	fmt.Fprintf(w, "Gate rate\t%.3f Hz\n", a.result.GateRateHz)
	fmt.Fprintf(w, "Step rate\t%.3f Hz\n", a.stepRateHz)
	fmt.Fprintf(w, "Depth\t%.1f dB\n", a.result.ModulationDepthDB)
	fmt.Fprintf(w, "Pattern\t%s (%#04x)\n", a.pattern.Format(a.steps), uint16(a.pattern))
	if a.presetFound {
		fmt.Fprintf(w, "Preset\t%s\n", gate.PresetName(a.preset))
	} else {
		fmt.Fprintf(w, "Preset\t-\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Step\tLevel\tdB\tOn")
	for i, l := range a.levels {
		on := "."
		if a.pattern.StepOn(i) {
			on = "x"
		}
		fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n", i+1, l, formatDB(l), on)
	}

	return w.Flush()
}

func formatDB(level float64) string {
	if level <= 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", 20*math.Log10(level))
}
