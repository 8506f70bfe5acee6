package frost

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

// --- TransitionOption ---

func TestTransitionOptionUnknownName(t *testing.T) {
	p, _ := newTestPipeline(t)
	if _, err := p.TransitionOption("bogus", 1, 1, ease.Linear); err == nil {
		t.Error("expected an error for an unknown option name")
	}
}

func TestTransitionDrivesTargetToValue(t *testing.T) {
	p, _ := newTestPipeline(t)
	tr, err := p.TransitionOption(OptionBrushRadius, 0.4, 1, ease.Linear)
	if err != nil {
		t.Fatal(err)
	}

	// One second of ticks completes the tween; the target lands exactly on
	// the end value.
	for i := 0; i < 61; i++ {
		p.Update()
	}
	if !tr.Done {
		t.Error("transition should be done after its duration")
	}
	if got := p.params.brushRadius.target; math.Abs(got-0.4) > 1e-6 {
		t.Errorf("target = %f, want 0.4", got)
	}
}

func TestTransitionTargetMovesMonotonically(t *testing.T) {
	p, _ := newTestPipeline(t)
	start := p.params.reflectivity.target
	if _, err := p.TransitionOption(OptionReflectivity, start+0.4, 2, ease.Linear); err != nil {
		t.Fatal(err)
	}

	prev := start
	for i := 0; i < 30; i++ {
		p.Update()
		cur := p.params.reflectivity.target
		if cur < prev {
			t.Fatalf("tick %d: target moved backwards (%f -> %f)", i, prev, cur)
		}
		prev = cur
	}
	if prev <= start {
		t.Error("target should have moved toward the transition end value")
	}
}

func TestFinishedTransitionsAreCompacted(t *testing.T) {
	p, _ := newTestPipeline(t)
	if _, err := p.TransitionOption(OptionReflectivity, 1, 0.05, ease.Linear); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		p.Update()
	}
	if len(p.transitions) != 0 {
		t.Errorf("finished transitions should be dropped, %d remain", len(p.transitions))
	}
}
