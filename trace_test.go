package frost

import "testing"

// --- Parsing ---

func TestLoadPointerTrace(t *testing.T) {
	script := []byte(`{"steps":[
		{"action":"press","x":10,"y":20},
		{"action":"move","x":10,"y":20,"toX":90,"toY":20,"ticks":4},
		{"action":"release"},
		{"action":"wait","ticks":3}
	]}`)
	tr, err := LoadPointerTrace(script)
	if err != nil {
		t.Fatalf("LoadPointerTrace: %v", err)
	}
	if len(tr.steps) != 4 {
		t.Errorf("parsed %d steps, want 4", len(tr.steps))
	}
}

func TestLoadPointerTraceErrors(t *testing.T) {
	if _, err := LoadPointerTrace([]byte("not json")); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := LoadPointerTrace([]byte(`{"steps":[]}`)); err == nil {
		t.Error("expected an error for an empty script")
	}
}

func TestTraceStepsComposable(t *testing.T) {
	// Steps are plain values a caller can collect and pass on separately from
	// the trace construction.
	steps := []TraceStep{
		TracePress(10, 20),
		TraceMove(10, 20, 90, 20, 4),
		TraceRelease(),
	}
	steps = append(steps, TraceWait(2))
	tr := NewPointerTrace(steps...)
	if len(tr.steps) != 4 {
		t.Errorf("trace has %d steps, want 4", len(tr.steps))
	}
}

// --- Replay ---

func TestTraceReplaysIntoPipeline(t *testing.T) {
	p, _ := newTestPipeline(t)
	tr := NewPointerTrace(
		TracePress(200, 150),
		TraceRelease(),
	)

	tr.Step(p)
	if !p.pointer.active {
		t.Fatal("press step should activate the pointer")
	}
	if p.pointer.raw != (Vec2{X: 200, Y: 150}) {
		t.Errorf("raw = %v, want (200,150)", p.pointer.raw)
	}

	tr.Step(p)
	if p.pointer.active {
		t.Error("release step should deactivate the pointer")
	}
	if !tr.Done() {
		t.Error("trace should be done after the last step")
	}
}

func TestTraceMoveInterpolates(t *testing.T) {
	p, _ := newTestPipeline(t)
	tr := NewPointerTrace(TraceMove(0, 0, 100, 0, 4))

	xs := []float64{}
	for !tr.Done() {
		tr.Step(p)
		if p.pointer.active {
			xs = append(xs, p.pointer.raw.X)
		}
	}
	want := []float64{0, 25, 50, 75}
	if len(xs) != len(want) {
		t.Fatalf("move emitted %d samples, want %d", len(xs), len(want))
	}
	for i := range want {
		if xs[i] != want[i] {
			t.Errorf("sample %d = %f, want %f", i, xs[i], want[i])
		}
	}
}

func TestTraceWaitConsumesTicks(t *testing.T) {
	p, _ := newTestPipeline(t)
	tr := NewPointerTrace(TraceWait(3), TracePress(1, 1))

	tr.Step(p) // wait tick 1
	tr.Step(p) // wait tick 2
	tr.Step(p) // wait tick 3
	if p.pointer.active {
		t.Fatal("press must not fire during the wait")
	}
	tr.Step(p)
	if !p.pointer.active {
		t.Error("press should fire after the wait")
	}
}
