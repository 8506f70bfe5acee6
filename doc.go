// Package frost renders an interactive frosted-glass effect over an image or
// video for [Ebitengine].
//
// A simulated frost layer covers the media. Moving the pointer wipes the
// frost away, revealing the sharp background beneath a blurred version.
// Wiping produces condensation that coalesces into drips and slides downward
// under simulated gravity.
//
// # Quick start
//
// Create a [Pipeline], feed it a media source, and drive it from your
// [ebiten.Game]:
//
//	type Game struct{ pipe *frost.Pipeline }
//
//	func (g *Game) Update() error {
//		g.pipe.Update()
//		return nil
//	}
//	func (g *Game) Draw(screen *ebiten.Image)  { g.pipe.Draw(screen) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.pipe.SetSize(w, h)
//		return w, h
//	}
//
// Pointer input arrives through [Pipeline.OnPointerUpdate] in canvas-local
// coordinates with y measured from the bottom (GPU texture convention).
// [CursorAdapter] performs this conversion for mouse and touch automatically.
//
// # Architecture
//
// Each tick advances a CPU cellular simulation over a double-buffered
// three-channel field (clear, water, drip), uploads the result to a
// simulation texture, prepares the background (cover-fit copy plus a
// separable Gaussian blur at reduced resolution), and composites everything
// with a Kage shader that adds refraction-like distortion, chromatic
// aberration, specular shimmer, and frost grain.
//
// Tunable options ([OptionRefrostRate], [OptionBrushRadius], and friends) are
// smoothed over time rather than applied instantaneously, so runtime changes
// animate instead of stepping. [Transition] animates an option's target over
// a fixed duration with an easing curve (via [gween]).
//
// The package produces no log output by default; call [SetLogger] to enable
// diagnostics.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package frost
