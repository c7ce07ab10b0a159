// Command gatebox renders, analyzes and plays audio through the rhythmic
// trance gate.
//
// Usage:
//
//	gatebox [command] [flags]
//
// Examples:
//
//	gatebox presets
//	gatebox render --pattern half --rate 1/16 --bpm 128 in.wav out.wav
//	gatebox render --wave saw --duration 8 out.wav
//	gatebox analyze --bpm 128 --rate 1/16 out.wav
//	gatebox play --pattern x.xx.x.. --swing 40 --midi-in "IAC Driver Bus 1"
//	gatebox play --state mygate.json --save-state
package main

func main() {
	Execute()
}
