package frost

import "math"

// Physics constants. The update rule is a visually tuned approximation, not a
// conservative fluid solver; drip mass decays ~1.5% per tick while flowing.
const (
	wipeWaterFactor = 0.5   // fraction of newly wiped frost converted to water
	dripSeedRate    = 0.01  // water contribution to drip per tick
	dripRetention   = 0.985 // drip decay while advecting downward
	dripAdvectStep  = 2     // simulation pixels a drip falls per tick
	dripClearFactor = 0.9   // how much of the drip level clears frost behind it
	evaporationRate = 0.97  // water retained after evaporation each tick
)

// frameInput consolidates everything the physics stage reads for one tick.
// Built by the pipeline from smoothed pointer and parameter state so the
// stage itself stays free of ambient mutable globals.
type frameInput struct {
	pointer       Vec2 // smoothed position in simulation pixels, bottom-up y
	pointerActive bool
	brushRadius   float64 // in simulation pixels
	refrostRate   float64
}

// stepSimulation evaluates the per-pixel update rule once for every cell,
// reading prev and writing next. The rule is unconditional and numerically
// bounded by the final clamp, so the stage cannot fail.
//
// Per cell: an active pointer wipes frost with a radial smoothstep falloff;
// the positive wiped amount becomes water; drip is replaced by the decayed
// drip two cells above (downward flow) plus a seed from local water; a drip
// clears most of the frost along its path; water evaporates; frost regrows
// fastest where the surface is driest.
func stepSimulation(prev, next *Field, in frameInput) {
	w, h := prev.width, prev.height
	px, py := in.pointer.X, in.pointer.Y
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			clear, water, _ := prev.At(x, y)

			brush := float32(0)
			if in.pointerActive {
				dx := float64(x) - px
				dy := float64(y) - py
				dist := math.Sqrt(dx*dx + dy*dy)
				brush = float32(1 - smoothstep(0, in.brushRadius, dist))
			}

			// Wiping frost generates water rather than destroying it.
			newClear := clear
			if brush > newClear {
				newClear = brush
			}
			water += (newClear - clear) * wipeWaterFactor

			// Advection replaces (not blends) the drip channel with the value
			// from above; the local water seed rides on top. Replace semantics
			// are load-bearing: they keep drips from pooling indefinitely.
			drip := prev.dripAt(x, y+dripAdvectStep)*dripRetention + water*dripSeedRate

			// A trailing drip leaves a mostly clear path behind it.
			if d := drip * dripClearFactor; d > newClear {
				newClear = d
			}

			water *= evaporationRate

			// Frost regrows fastest where it's driest; wet cells resist.
			newClear -= float32(in.refrostRate) * (1 - water)

			next.set(x, y, clamp01f(newClear), clamp01f(water), clamp01f(drip))
		}
	}
}
