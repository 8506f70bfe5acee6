package frost

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DebugOverlay draws pipeline diagnostics (FPS/TPS, lifecycle phase, tick
// mode, derived resolutions) in the top-left corner of the screen. The text
// is refreshed every ~0.5 seconds to stay readable.
type DebugOverlay struct {
	pipe *Pipeline
	text string
	acc  float64
}

// NewDebugOverlay creates an overlay for the given pipeline.
func NewDebugOverlay(pipe *Pipeline) *DebugOverlay {
	return &DebugOverlay{pipe: pipe}
}

// Update accumulates dt seconds and rebuilds the overlay text twice a second.
func (d *DebugOverlay) Update(dt float64) {
	d.acc += dt
	if d.acc < 0.5 && d.text != "" {
		return
	}
	d.acc = 0

	p := d.pipe
	mode := "full-rate"
	if p.gate.idle {
		mode = "idle"
	}
	if p.paused {
		mode = "paused"
	}
	fw, fh, sw, sh, bw, bh := p.Resolutions()
	d.text = fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\nphase: %s  tick: %s\nfull: %dx%d  sim: %dx%d  blur: %dx%d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		p.phase, mode,
		fw, fh, sw, sh, bw, bh,
	)
}

// Draw prints the overlay text onto screen. Call after [Pipeline.Draw].
func (d *DebugOverlay) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, d.text)
}
