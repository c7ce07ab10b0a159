package gate

import (
	"sync"
	"testing"
)

func TestVisualizerTapPublish(t *testing.T) {
	v := NewVisualizerTap()
	if v.StepPattern() != 0xFFFF || v.CurrentStep() != 0 {
		t.Fatalf("initial snapshot %+v", v.Snapshot())
	}

	want := Snapshot{CurrentStep: 7, GateLevel: 0.25, OutputLevel: 0.9, StepPattern: 0xF0F0}
	v.Publish(want)
	if got := v.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestVisualizerTapConcurrentReaders(t *testing.T) {
	v := NewVisualizerTap()
	var wg sync.WaitGroup

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s := v.Snapshot()
				if s.CurrentStep < 0 || s.CurrentStep >= MaxSteps {
					t.Errorf("torn step %d", s.CurrentStep)
					return
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		v.Publish(Snapshot{CurrentStep: i % MaxSteps, GateLevel: float64(i), StepPattern: uint16(i)})
	}
	wg.Wait()
}
