package frost

import "fmt"

// Smoothing factors. Raw pointer samples and parameter targets are applied
// gradually, once per tick, so changes glide instead of stepping.
const (
	paramSmoothing   = 0.075
	pointerSmoothing = 0.1
)

// pointerOffCanvas is the sentinel position assigned when the pointer leaves
// the canvas or a touch ends.
var pointerOffCanvas = Vec2{X: -1e4, Y: -1e4}

// Option names recognized by [Pipeline.SetOption]. Each is consumed as a
// smoothed parameter, never applied instantaneously.
const (
	// OptionRefrostRate is the speed frost regrows on dry areas. Typical
	// range [0, 0.005].
	OptionRefrostRate = "refrostRate"
	// OptionBrushRadius is the wiped radius as a fraction of the smaller
	// viewport dimension. Range [0.05, 0.5].
	OptionBrushRadius = "brushRadius"
	// OptionPixelRatio caps the device pixel density applied to render
	// target sizing.
	OptionPixelRatio = "pixelRatio"
	// OptionChromaticAberration is the RGB channel separation strength in
	// disturbed areas. Range [0, 0.1].
	OptionChromaticAberration = "chromaticAberration"
	// OptionReflectivity is the specular highlight intensity on wet areas.
	// Range [0, 1].
	OptionReflectivity = "reflectivity"
)

// animatedParam is a (target, current) pair. current is lerped toward target
// every tick so externally driven parameter changes animate smoothly.
type animatedParam struct {
	current, target float64
}

// setTarget updates the value the parameter glides toward.
func (p *animatedParam) setTarget(v float64) { p.target = v }

// snap sets both current and target, skipping the glide. Used at construction.
func (p *animatedParam) snap(v float64) {
	p.current = v
	p.target = v
}

// step advances current toward target by the fixed smoothing factor.
func (p *animatedParam) step() {
	p.current = lerp(p.current, p.target, paramSmoothing)
}

// params holds every tunable pipeline option as an animated parameter.
type params struct {
	refrostRate         animatedParam
	brushRadius         animatedParam
	pixelRatio          animatedParam
	chromaticAberration animatedParam
	reflectivity        animatedParam
}

// byName maps an option name to its parameter, or nil if unrecognized.
func (p *params) byName(name string) *animatedParam {
	switch name {
	case OptionRefrostRate:
		return &p.refrostRate
	case OptionBrushRadius:
		return &p.brushRadius
	case OptionPixelRatio:
		return &p.pixelRatio
	case OptionChromaticAberration:
		return &p.chromaticAberration
	case OptionReflectivity:
		return &p.reflectivity
	}
	return nil
}

// step advances every parameter one tick.
func (p *params) step() {
	p.refrostRate.step()
	p.brushRadius.step()
	p.pixelRatio.step()
	p.chromaticAberration.step()
	p.reflectivity.step()
}

// setOption sets a parameter's target by option name.
func (p *params) setOption(name string, value float64) error {
	param := p.byName(name)
	if param == nil {
		return fmt.Errorf("set option: unknown option %q", name)
	}
	param.setTarget(value)
	return nil
}

// option reads a parameter's current (smoothed) value by option name.
func (p *params) option(name string) (float64, error) {
	param := p.byName(name)
	if param == nil {
		return 0, fmt.Errorf("get option: unknown option %q", name)
	}
	return param.current, nil
}

// pointerState tracks the raw pointer sample from the input adapter and the
// smoothed position the physics stage consumes. Raw updates arrive
// asynchronously relative to ticks; the latest sample wins, which is
// sufficient for a presentation effect.
type pointerState struct {
	raw      Vec2 // canvas-local pixels, y measured from the bottom
	smoothed Vec2
	active   bool
}

// newPointerState starts with the pointer parked off-canvas and inactive.
func newPointerState() pointerState {
	return pointerState{raw: pointerOffCanvas, smoothed: pointerOffCanvas}
}

// update records a raw pointer sample. Deactivating parks the raw position at
// the off-canvas sentinel; reactivating after the sentinel snaps the smoothed
// position to the new sample so the brush doesn't sweep in from off-screen.
func (s *pointerState) update(x, y float64, active bool) {
	if !active {
		s.raw = pointerOffCanvas
		s.active = false
		return
	}
	if !s.active && s.raw == pointerOffCanvas {
		s.smoothed = Vec2{X: x, Y: y}
	}
	s.raw = Vec2{X: x, Y: y}
	s.active = true
}

// step advances the smoothed position toward the raw sample.
func (s *pointerState) step() {
	s.smoothed.X = lerp(s.smoothed.X, s.raw.X, pointerSmoothing)
	s.smoothed.Y = lerp(s.smoothed.Y, s.raw.Y, pointerSmoothing)
}
