package session

import (
	"testing"

	"github.com/cwbudde/algo-gate/dsp/core"
	"github.com/cwbudde/algo-gate/dsp/gate"
	"github.com/cwbudde/algo-gate/dsp/gate/param"
	"github.com/cwbudde/algo-gate/dsp/signal"
	"github.com/cwbudde/algo-gate/internal/hostsim"
	"github.com/cwbudde/algo-gate/internal/testutil"
	"github.com/cwbudde/algo-gate/internal/wavio"
)

type countingClock struct {
	advanced int
	calls    int
}

func (c *countingClock) Position() gate.HostPosition {
	c.calls++
	return gate.AtTempo(120)
}

func (c *countingClock) Advance(samples int) { c.advanced += samples }

func testConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(core.WithSampleRate(48000), core.WithBlockSize(256))
}

func TestNewValidation(t *testing.T) {
	if _, err := New(testConfig(), nil, &countingClock{}, nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(testConfig(), param.NewStore(), nil, nil); err == nil {
		t.Fatal("expected error for nil clock")
	}
	if _, err := New(core.ProcessorConfig{}, param.NewStore(), &countingClock{}, nil); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestProcessSplitsIntoBlocks(t *testing.T) {
	clock := &countingClock{}
	s, err := New(testConfig(), param.NewStore(), clock, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	left, right := testutil.StereoPair(testutil.DC(1, 1000))
	s.Process(left, right)

	if clock.calls != 4 || clock.advanced != 1000 {
		t.Fatalf("clock saw %d blocks and %d samples, want 4 and 1000", clock.calls, clock.advanced)
	}
}

func TestRenderMatchesDirectProcessing(t *testing.T) {
	store := param.NewStore()
	store.Set(param.Pattern, 3)
	store.Set(param.Humanize, 30)

	osc, err := signal.NewOscillator(testConfig(), signal.Saw, 110, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	tr, _ := hostsim.New(48000, 128)
	tr.Play()
	s, err := New(testConfig(), store, tr, NewOscillatorInput(osc), gate.WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}

	gotL, gotR := make([]float64, 4096), make([]float64, 4096)
	s.Render(gotL, gotR)

	// Same chain by hand.
	ref, _ := signal.NewOscillator(testConfig(), signal.Saw, 110, 0.5)
	wantL := make([]float64, 4096)
	ref.Fill(wantL)
	wantR := append([]float64(nil), wantL...)
	p, _ := gate.NewProcessor(testConfig(), gate.WithSeed(5))
	host, _ := hostsim.New(48000, 128)
	host.Play()
	for start := 0; start < 4096; start += 256 {
		p.ProcessBlock(wantL[start:start+256], wantR[start:start+256], host.Position(), store.Load())
		host.Advance(256)
	}

	testutil.RequireSliceEqual(t, gotL, wantL)
	testutil.RequireSliceEqual(t, gotR, wantR)
	if tr.PPQ() != host.PPQ() {
		t.Fatalf("transport at %v, want %v", tr.PPQ(), host.PPQ())
	}
}

func TestRenderWithoutInputIsSilent(t *testing.T) {
	s, _ := New(testConfig(), param.NewStore(), &countingClock{}, nil)
	left, right := testutil.StereoPair(testutil.DC(1, 300))
	s.Render(left, right)
	testutil.RequireSliceEqual(t, left, make([]float64, 300))
	testutil.RequireSliceEqual(t, right, make([]float64, 300))
}

func TestLoopInputWraps(t *testing.T) {
	if _, err := NewLoopInput(wavio.Stereo{}); err == nil {
		t.Fatal("expected error for empty loop")
	}

	in, err := NewLoopInput(wavio.Stereo{Left: []float64{1, 2, 3}, Right: []float64{-1, -2, -3}})
	if err != nil {
		t.Fatal(err)
	}
	left, right := make([]float64, 7), make([]float64, 7)
	in.Read(left, right)
	testutil.RequireSliceEqual(t, left, []float64{1, 2, 3, 1, 2, 3, 1})
	testutil.RequireSliceEqual(t, right, []float64{-1, -2, -3, -1, -2, -3, -1})

	in.Read(left[:2], right[:2])
	testutil.RequireSliceEqual(t, left[:2], []float64{2, 3})
}

func TestStoreChangesApplyNextBlock(t *testing.T) {
	store := param.NewStore()
	s, _ := New(testConfig(), store, &countingClock{}, nil)

	store.Set(param.Bypass, 1)
	in := testutil.DeterministicNoise(1, 1, 512)
	left, right := testutil.StereoPair(in)
	s.Process(left, right)
	testutil.RequireSliceEqual(t, left, in)

	if s.Visualizer().GateLevel() != 1 {
		t.Fatalf("bypassed GateLevel = %v, want 1", s.Visualizer().GateLevel())
	}
	if s.Store() != store || s.Processor() == nil {
		t.Fatal("accessors should expose the wired components")
	}
}
