package gate_test

import (
	"fmt"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
)

func ExamplePattern() {
	for i := 0; i < gate.NumPresets; i++ {
		p, _ := gate.Preset(i)
		fmt.Printf("%-10s %s\n", gate.PresetName(i), p)
	}
	// Output:
	// All        xxxxxxxxxxxxxxxx
	// Alternate  x.x.x.x.x.x.x.x.
	// Quarter    x...x...x...x...
	// Half       xxxx....xxxx....
	// Trance     xxx.xxx.xxx.xxx.
	// Sidechain  xxxxx.x.xxxxx.x.
	// Syncopated x.xx.xx.x.xx.xx.
	// Stutter    xxxxx...xxxxx...
}

func ExampleProcessor() {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(48000), core.WithBlockSize(256))
	p, err := gate.NewProcessor(cfg, gate.WithSeed(1))
	if err != nil {
		panic(err)
	}

	v := param.Defaults()
	v.Pattern = 3 // Half
	v.Steps = 8

	left := make([]float64, 256)
	right := make([]float64, 256)
	p.ProcessBlock(left, right, gate.At(120, 2.5), v)

	snap := p.Visualizer().Snapshot()
	fmt.Printf("step %d of %d, pattern %s\n", snap.CurrentStep, p.Transport().NumSteps(), gate.Pattern(snap.StepPattern).Format(8))
	// Output:
	// step 4 of 8, pattern xxxx....
}
