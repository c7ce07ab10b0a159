package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

var listParams bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in patterns and step rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listParams {
			return writeParams(os.Stdout)
		}
		return writePresets(os.Stdout)
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&listParams, "params", false, "list the gate parameters instead")
	rootCmd.AddCommand(presetsCmd)
}

func writePresets(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tName\tSteps\tMask\tActive")
	for i := 0; i < gate.NumPresets; i++ {
		p, _ := gate.Preset(i)
		fmt.Fprintf(w, "%d\t%s\t%s\t%#04x\t%d\n", i, gate.PresetName(i), p, uint16(p), p.ActiveSteps(gate.MaxSteps))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rate\tSteps/beat")
	for i, name := range param.RateChoices {
		fmt.Fprintf(w, "%s\t%g\n", name, gate.StepsPerBeat(i))
	}
	return w.Flush()
}

func writeParams(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Flag\tLabel\tRange\tDefault\tUnit")
	for _, s := range param.Specs() {
		rng := fmt.Sprintf("%g..%g", s.Range.Min, s.Range.Max)
		def := fmt.Sprintf("%g", s.Default)
		if s.Kind == param.KindChoice {
			rng = strings.Join(s.Choices, " ")
			def = s.Choices[int(s.Default)]
		}
		fmt.Fprintf(w, "--%s\t%s\t%s\t%s\t%s\n", flagName(s.ID), s.Label, rng, def, unitOf(s.ID))
	}
	return w.Flush()
}
