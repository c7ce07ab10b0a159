package hostsim

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-gate/dsp/gate"
)

func TestNewValidation(t *testing.T) {
	for _, tc := range []struct{ sr, bpm float64 }{
		{0, 120}, {math.Inf(1), 120}, {48000, 0}, {48000, math.NaN()},
	} {
		if _, err := New(tc.sr, tc.bpm); err == nil {
			t.Fatalf("New(%v, %v) expected error", tc.sr, tc.bpm)
		}
	}
}

func TestAdvanceWhilePlaying(t *testing.T) {
	tr, err := New(48000, 120)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tr.Advance(24000)
	if tr.PPQ() != 0 {
		t.Fatalf("stopped transport moved to %v", tr.PPQ())
	}
	if got := tr.Position(); got != gate.AtTempo(120) {
		t.Fatalf("stopped Position() = %+v", got)
	}

	tr.Play()
	tr.Advance(24000)
	if math.Abs(tr.PPQ()-1) > 1e-12 {
		t.Fatalf("PPQ = %v, want 1", tr.PPQ())
	}
	if got := tr.Position(); got != gate.At(120, tr.PPQ()) {
		t.Fatalf("playing Position() = %+v", got)
	}

	tr.Stop()
	tr.Advance(24000)
	if math.Abs(tr.PPQ()-1) > 1e-12 {
		t.Fatal("Stop should hold the position")
	}
}

func TestLoopWraps(t *testing.T) {
	tr, _ := New(1000, 60)
	if err := tr.SetLoop(1, 3); err != nil {
		t.Fatalf("SetLoop() error = %v", err)
	}
	tr.Play()
	tr.Advance(3500)
	if math.Abs(tr.PPQ()-1.5) > 1e-9 {
		t.Fatalf("PPQ = %v, want 1.5", tr.PPQ())
	}

	tr.ClearLoop()
	tr.Advance(2000)
	if math.Abs(tr.PPQ()-3.5) > 1e-9 {
		t.Fatalf("PPQ = %v, want 3.5 without loop", tr.PPQ())
	}

	if err := tr.SetLoop(2, 2); err == nil {
		t.Fatal("expected error for empty loop")
	}
}

func TestSeekAndTempo(t *testing.T) {
	tr, _ := New(48000, 120)
	tr.Seek(-2)
	if tr.PPQ() != -2 {
		t.Fatalf("PPQ = %v, want -2", tr.PPQ())
	}
	tr.Seek(math.NaN())
	if tr.PPQ() != -2 {
		t.Fatal("NaN seek should be ignored")
	}

	if err := tr.SetTempo(-1); err == nil {
		t.Fatal("expected error for negative tempo")
	}
	if err := tr.SetTempo(90); err != nil || tr.SamplesPerBeat() != 32000 {
		t.Fatalf("SetTempo(90): err %v, SamplesPerBeat %v", err, tr.SamplesPerBeat())
	}
}
