// Package rhythm measures the amplitude rhythm of gated audio.
//
// Two views are offered. The step view folds the signal onto a known step
// grid and reads back which steps are open:
//
//	levels := rhythm.StepLevels(left, 3000, 16, 0)
//	mask := rhythm.DetectPattern(levels, 0.5)
//	idx, ok := rhythm.MatchPreset(mask, 16)
//
// The spectral view needs no grid. It follows the amplitude envelope,
// windows it and takes its spectrum to estimate the gating rate and the
// modulation depth:
//
//	res, _ := rhythm.Analyze(left, rhythm.Config{SampleRate: 48000})
//	fmt.Println(res.GateRateHz, res.ModulationDepthDB)
package rhythm
