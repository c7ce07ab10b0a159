package gate

import (
	"math"
	"math/rand/v2"
	"testing"
)

type onset struct {
	sample int
	step   int
}

// runOnsets advances tr by n samples and records every onset. offset is
// consulted for the next step after each onset.
func runOnsets(tr *Transport, n int, offset func(step int) float64) []onset {
	var fired []onset
	next := 0.0
	for i := 0; i < n; i++ {
		if step, ok := tr.CheckOnset(next); ok {
			fired = append(fired, onset{sample: i, step: step})
			next = offset(tr.NextStep())
		}
		tr.Advance()
	}
	return fired
}

func noOffset(int) float64 { return 0 }

// newTestTransport returns a transport with 250-sample steps.
func newTestTransport(numSteps int) *Transport {
	tr := NewTransport(1000)
	tr.BeginBlock(AtTempo(60), 2, numSteps)
	return tr
}

func TestTransportDefaults(t *testing.T) {
	tr := NewTransport(48000)
	if tr.SamplesPerBeat() != 24000 {
		t.Fatalf("SamplesPerBeat = %v, want 24000", tr.SamplesPerBeat())
	}
	if tr.SamplesPerStep() != 3000 {
		t.Fatalf("SamplesPerStep = %v, want 3000", tr.SamplesPerStep())
	}
	if tr.NumSteps() != 16 || tr.Position() != 0 || tr.LastStep() != -1 {
		t.Fatalf("unexpected initial state: steps %d pos %v last %d", tr.NumSteps(), tr.Position(), tr.LastStep())
	}
}

func TestStepsPerBeat(t *testing.T) {
	want := []float64{1, 2, 4, 8, 16, 32}
	for rate, w := range want {
		if got := StepsPerBeat(rate); got != w {
			t.Fatalf("StepsPerBeat(%d) = %v, want %v", rate, got, w)
		}
	}
	if StepsPerBeat(-3) != 1 || StepsPerBeat(9) != 32 {
		t.Fatal("rate index should clamp to [0, 5]")
	}
}

func TestBeginBlockIgnoresInvalidTempo(t *testing.T) {
	tr := NewTransport(48000)
	tr.BeginBlock(AtTempo(90), 3, 16)
	if tr.SamplesPerBeat() != 32000 {
		t.Fatalf("SamplesPerBeat = %v, want 32000", tr.SamplesPerBeat())
	}

	for _, bpm := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		tr.BeginBlock(AtTempo(bpm), 3, 16)
		if tr.SamplesPerBeat() != 32000 {
			t.Fatalf("bpm %v changed SamplesPerBeat to %v", bpm, tr.SamplesPerBeat())
		}
	}

	tr.BeginBlock(HostPosition{BPM: 60}, 3, 16)
	if tr.SamplesPerBeat() != 32000 {
		t.Fatal("tempo without HasBPM must be ignored")
	}
}

func TestBeginBlockFollowsHostPosition(t *testing.T) {
	tests := []struct {
		name  string
		ppq   float64
		rate  int
		steps int
		want  float64
	}{
		{"eighths", 1.5, 3, 16, 12},
		{"negative ppq", -0.25, 3, 16, 14},
		{"wraps cycle", 3, 3, 8, 0},
		{"sixteenths", 0.3, 4, 4, 0.8},
		{"whole notes", 10, 0, 16, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransport(48000)
			tr.BeginBlock(At(120, tt.ppq), tt.rate, tt.steps)
			if math.Abs(tr.Position()-tt.want) > 1e-9 {
				t.Fatalf("Position = %v, want %v", tr.Position(), tt.want)
			}
		})
	}

	tr := NewTransport(48000)
	tr.BeginBlock(At(120, math.NaN()), 3, 16)
	if tr.Position() != 0 {
		t.Fatalf("NaN ppq moved position to %v", tr.Position())
	}
}

func TestPositionStaysInRangeAcrossStepChanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tr := NewTransport(44100)

	for block := 0; block < 500; block++ {
		steps := 4 + rng.IntN(13)
		host := AtTempo(60 + rng.Float64()*120)
		if rng.IntN(4) == 0 {
			host = At(host.BPM, rng.Float64()*64-16)
		}
		tr.BeginBlock(host, rng.IntN(6), steps)

		for i := 0; i < 256; i++ {
			tr.CheckOnset(0)
			tr.Advance()
			pos := tr.Position()
			if pos < 0 || pos >= float64(steps) {
				t.Fatalf("block %d: position %v outside [0, %d)", block, pos, steps)
			}
			if s := tr.Step(); s < 0 || s >= steps {
				t.Fatalf("block %d: step %d outside [0, %d)", block, s, steps)
			}
		}
	}
}

func TestStepCountChangeWrapsPosition(t *testing.T) {
	tr := newTestTransport(16)
	tr.Skip(250*13 + 100)
	tr.BeginBlock(AtTempo(60), 2, 4)
	if math.Abs(tr.Position()-1.4) > 1e-9 {
		t.Fatalf("Position = %v, want 1.4", tr.Position())
	}

	tr.BeginBlock(AtTempo(60), 2, 40)
	if tr.NumSteps() != 16 {
		t.Fatalf("NumSteps = %d, want clamp to 16", tr.NumSteps())
	}
}

func TestOnsetFiresAtStepChange(t *testing.T) {
	tr := newTestTransport(16)
	fired := runOnsets(tr, 16*250, noOffset)

	if len(fired) != 16 {
		t.Fatalf("got %d onsets, want 16", len(fired))
	}
	for k, o := range fired {
		if o.step != k {
			t.Fatalf("onset %d fired step %d", k, o.step)
		}
		if d := o.sample - k*250; d < 0 || d > 1 {
			t.Fatalf("step %d fired at sample %d, want %d", k, o.sample, k*250)
		}
	}
}

func TestOnsetDelayedByOffset(t *testing.T) {
	tr := newTestTransport(8)
	fired := runOnsets(tr, 8*250, func(int) float64 { return 0.5 })

	if len(fired) != 8 {
		t.Fatalf("got %d onsets, want 8", len(fired))
	}
	if fired[0].sample != 0 {
		t.Fatalf("first onset at %d, want 0", fired[0].sample)
	}
	for k := 1; k < len(fired); k++ {
		want := k*250 + 125
		if d := fired[k].sample - want; d < 0 || d > 1 {
			t.Fatalf("step %d fired at sample %d, want %d", k, fired[k].sample, want)
		}
	}
}

func TestOnsetEarlyNeverDoubleFires(t *testing.T) {
	tr := newTestTransport(16)
	rng := rand.New(rand.NewPCG(7, 7))
	fired := runOnsets(tr, 4*16*250, func(int) float64 { return rng.Float64()*0.2 - 0.1 })

	if n := len(fired); n < 64 || n > 65 {
		t.Fatalf("got %d onsets over 4 cycles, want 64-65", n)
	}
	for k := 1; k < len(fired); k++ {
		if fired[k].step != (fired[k-1].step+1)%16 {
			t.Fatalf("onset %d: step %d follows %d", k, fired[k].step, fired[k-1].step)
		}
		if gap := fired[k].sample - fired[k-1].sample; gap < 200 || gap > 300 {
			t.Fatalf("onset %d: gap %d samples outside jitter window", k, gap)
		}
	}
}

func TestHostSeekResyncs(t *testing.T) {
	tr := newTestTransport(16)
	runOnsets(tr, 100, noOffset)

	tr.BeginBlock(At(60, 2), 2, 16)
	step, ok := tr.CheckOnset(0)
	if !ok || step != 8 {
		t.Fatalf("after seek CheckOnset = (%d, %v), want (8, true)", step, ok)
	}
	if _, ok := tr.CheckOnset(0); ok {
		t.Fatal("second check at the same position fired again")
	}
}

func TestSkip(t *testing.T) {
	tr := newTestTransport(16)
	tr.Skip(750)
	if math.Abs(tr.Position()-3) > 1e-9 {
		t.Fatalf("Position = %v, want 3", tr.Position())
	}
	tr.Skip(250 * 15)
	if math.Abs(tr.Position()-2) > 1e-9 {
		t.Fatalf("Position = %v, want 2", tr.Position())
	}
}
