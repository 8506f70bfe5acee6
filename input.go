package frost

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// CursorAdapter polls mouse and touch input each tick and feeds it to a
// pipeline as pointer updates, converting from Ebitengine's top-down screen
// coordinates to the pipeline's canvas-local bottom-up convention.
//
// The mouse pointer counts as active while the cursor is inside the
// viewport; a touch counts as active while held. When every pointer leaves,
// a deactivating update clears the brush influence.
type CursorAdapter struct {
	pipe     *Pipeline
	touchIDs []ebiten.TouchID // reused poll buffer
	active   bool
}

// NewCursorAdapter creates an adapter feeding the given pipeline.
func NewCursorAdapter(pipe *Pipeline) *CursorAdapter {
	return &CursorAdapter{pipe: pipe}
}

// Poll samples the current pointer state and forwards it to the pipeline.
// Call once per Update, before [Pipeline.Update], with the viewport size in
// logical pixels.
func (a *CursorAdapter) Poll(w, h int) {
	if w <= 0 || h <= 0 {
		a.deactivate()
		return
	}

	// Touches take priority over the mouse: on touch devices the cursor
	// position is stale while a finger is down.
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	if len(a.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(a.touchIDs[0])
		a.send(x, y, w, h)
		return
	}

	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= w || y >= h {
		a.deactivate()
		return
	}
	a.send(x, y, w, h)
}

// send forwards an active sample, flipping y to measure from the bottom.
func (a *CursorAdapter) send(x, y, w, h int) {
	a.active = true
	a.pipe.OnPointerUpdate(float64(x), float64(h-y), true)
}

// deactivate sends a single deactivating update on the active-to-inactive
// transition.
func (a *CursorAdapter) deactivate() {
	if a.active {
		a.active = false
		a.pipe.OnPointerUpdate(0, 0, false)
	}
}
