package frost

import (
	"encoding/json"
	"fmt"
)

// TraceStep represents a single action in a pointer trace script.
// Coordinates are canvas-local pixels with y measured from the bottom,
// matching [Pipeline.OnPointerUpdate]. Build steps with [TracePress],
// [TraceMove], [TraceRelease], and [TraceWait], or as literals.
type TraceStep struct {
	Action string  `json:"action"` // "press", "move", "release", "wait"
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Ticks  int     `json:"ticks,omitempty"`
}

// traceScript is the top-level JSON structure for a pointer trace.
type traceScript struct {
	Steps []TraceStep `json:"steps"`
}

// PointerTrace replays a scripted sequence of pointer events into a pipeline,
// one step per tick, for reproducible wipe gestures in demos and automated
// tests. A "move" step with Ticks > 1 interpolates linearly from (x, y) to
// (toX, toY) across that many ticks with the pointer held active.
type PointerTrace struct {
	steps     []TraceStep
	cursor    int
	moveTick  int
	waitCount int
	done      bool
}

// LoadPointerTrace parses a JSON trace script.
func LoadPointerTrace(jsonData []byte) (*PointerTrace, error) {
	var script traceScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse pointer trace: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse pointer trace: no steps")
	}
	return &PointerTrace{steps: script.Steps}, nil
}

// NewPointerTrace builds a trace programmatically.
func NewPointerTrace(steps ...TraceStep) *PointerTrace {
	return &PointerTrace{steps: steps}
}

// TraceMove returns a move step sweeping from (x, y) to (toX, toY) over the
// given number of ticks.
func TraceMove(x, y, toX, toY float64, ticks int) TraceStep {
	return TraceStep{Action: "move", X: x, Y: y, ToX: toX, ToY: toY, Ticks: ticks}
}

// TracePress returns a press step at (x, y).
func TracePress(x, y float64) TraceStep {
	return TraceStep{Action: "press", X: x, Y: y}
}

// TraceRelease returns a release step.
func TraceRelease() TraceStep {
	return TraceStep{Action: "release"}
}

// TraceWait returns a wait step of the given number of ticks.
func TraceWait(ticks int) TraceStep {
	return TraceStep{Action: "wait", Ticks: ticks}
}

// Done reports whether every step has been executed.
func (t *PointerTrace) Done() bool { return t.done }

// Step advances the trace by one tick, feeding at most one pointer update to
// the pipeline. Call once per tick before [Pipeline.Update].
func (t *PointerTrace) Step(p *Pipeline) {
	if t.done {
		return
	}
	if t.waitCount > 0 {
		t.waitCount--
		return
	}
	if t.cursor >= len(t.steps) {
		t.done = true
		return
	}

	st := t.steps[t.cursor]
	switch st.Action {
	case "press":
		p.OnPointerUpdate(st.X, st.Y, true)
		t.cursor++
	case "release":
		p.OnPointerUpdate(0, 0, false)
		t.cursor++
	case "move":
		ticks := st.Ticks
		if ticks < 1 {
			ticks = 1
		}
		frac := float64(t.moveTick) / float64(ticks)
		x := st.X + (st.ToX-st.X)*frac
		y := st.Y + (st.ToY-st.Y)*frac
		p.OnPointerUpdate(x, y, true)
		t.moveTick++
		if t.moveTick >= ticks {
			t.moveTick = 0
			t.cursor++
		}
	case "wait":
		if st.Ticks > 1 {
			t.waitCount = st.Ticks - 1 // this tick counts as one
		}
		t.cursor++
	default:
		t.cursor++
	}

	if t.cursor >= len(t.steps) && t.waitCount == 0 && t.moveTick == 0 {
		t.done = true
	}
}
