// Package gate provides a tempo-synchronized rhythmic gate (trance gate).
//
// A [Processor] cuts and shapes the amplitude of a stereo stream according to
// a 16-step on/off [Pattern]. Every active step triggers an
// attack/hold/release [Envelope]; swing, humanize and velocity modulate the
// timing and level of those envelopes. Depth, dry/wet mix and output gain are
// smoothed per sample.
//
// Components:
//   - Pattern: 16-bit MSB-first step masks, 8 presets plus a custom mask.
//   - Envelope: Attack/Hold/Release/Off state machine with curve shaping.
//   - Transport: host tempo/position to fractional step clock, onset detection.
//   - Modulators: swing, humanize and velocity driven by one uniform source.
//   - SignalPath: smoothed depth, mix and output gain applied to both channels.
//   - VisualizerTap: lock-free per-block snapshot for a slower observer.
//
// ProcessBlock does not allocate, lock or block. Parameters arrive as a
// [param.Values] snapshot, typically loaded from a [param.Store] once per
// block.
package gate
