package frost

import (
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Idle throttling: after the pointer has been inactive this long on static
// content, simulation ticks drop to the idle interval (~10 Hz). Pointer
// activity or a dynamic media source restores full-rate ticking immediately.
const (
	idleDelay    = 2 * time.Second
	idleInterval = 100 * time.Millisecond
)

// phase is the pipeline's media lifecycle state. Pause/resume and
// full-rate/idle switching are tracked orthogonally.
type phase uint8

const (
	phaseUninitialized phase = iota // no valid size yet
	phaseSized                      // targets allocated, no media requested
	phaseMediaPending               // a load is in flight, nothing bound
	phaseMediaReady                 // a media source is bound
)

func (p phase) String() string {
	switch p {
	case phaseUninitialized:
		return "uninitialized"
	case phaseSized:
		return "sized"
	case phaseMediaPending:
		return "media-pending"
	case phaseMediaReady:
		return "media-ready"
	}
	return "unknown"
}

// tickGate is the single decision point for whether a simulation step runs
// on a given host frame. Full-rate mode steps every frame; idle mode steps
// on a fixed timer interval instead.
type tickGate struct {
	idle         bool
	lastStep     time.Time
	lastActivity time.Time
}

// allow reports whether a simulation step should run now, and updates the
// gate's mode. dynamic forces full rate (video content must not throttle).
func (g *tickGate) allow(now time.Time, dynamic bool) bool {
	idle := !dynamic && now.Sub(g.lastActivity) > idleDelay
	if idle != g.idle {
		g.idle = idle
		logger().Debug("frost: tick mode changed", "idle", idle)
	}
	if g.idle && now.Sub(g.lastStep) < idleInterval {
		return false
	}
	g.lastStep = now
	return true
}

// Config carries the initial pipeline options. Zero values select the
// defaults listed on each field. All option fields remain tunable at runtime
// through [Pipeline.SetOption] and are smoothed rather than applied
// instantaneously.
type Config struct {
	// RefrostRate is the speed frost regrows on dry areas. Default 0.001.
	RefrostRate float64
	// BrushRadius is the wiped radius as a fraction of the smaller viewport
	// dimension. Default 0.15.
	BrushRadius float64
	// PixelRatio caps the device pixel density used for render target
	// sizing. Default 2.
	PixelRatio float64
	// ChromaticAberration is the RGB separation strength. Default 0.02.
	ChromaticAberration float64
	// Reflectivity is the specular highlight intensity. Default 0.5.
	Reflectivity float64
	// DeviceScaleFactor is the monitor's pixel density. Default 1.
	DeviceScaleFactor float64
	// ClearColor fills the surface while no media is bound. Default black.
	ClearColor Color
	// OnMediaError receives load failures (network, decode, unsupported
	// format). Stale results from superseded loads are never reported.
	OnMediaError func(error)
}

func (c *Config) applyDefaults() {
	if c.RefrostRate == 0 {
		c.RefrostRate = 0.001
	}
	if c.BrushRadius == 0 {
		c.BrushRadius = 0.15
	}
	if c.PixelRatio == 0 {
		c.PixelRatio = 2
	}
	if c.ChromaticAberration == 0 {
		c.ChromaticAberration = 0.02
	}
	if c.Reflectivity == 0 {
		c.Reflectivity = 0.5
	}
	if c.DeviceScaleFactor == 0 {
		c.DeviceScaleFactor = 1
	}
	if c.ClearColor == (Color{}) {
		c.ClearColor = ColorBlack
	}
}

// Pipeline orchestrates the full effect: the per-tick simulation step, the
// background preparation and compositing passes, resolution policy on
// resize, idle throttling, media loading, and disposal.
//
// All methods except ProvideFrame and ReportFailure must be called from the
// game loop goroutine. Loader goroutines deliver results through those two
// entry points; the results are applied at a single gated point at the start
// of the next tick.
type Pipeline struct {
	cfg     Config
	params  params
	pointer pointerState

	buf      *doubleBuffer
	simTex   fieldTexture
	bg       *backgroundStage
	comp     *compositeStage
	res      resolutionSet
	vw, vh   int // viewport size in logical pixels
	simDirty bool
	bgDirty  bool

	media    MediaSource
	mediaGen uint64
	inbox    mediaInbox

	phase      phase
	paused     bool
	viewportOK bool
	disposed   bool
	gate       tickGate
	ticks      uint64

	transitions []*Transition
	captures    captureQueue

	now func() time.Time // swappable for tests
}

// New creates a pipeline with the given configuration. The pipeline starts
// unsized; call [Pipeline.SetSize] before the first tick.
func New(cfg Config) *Pipeline {
	cfg.applyDefaults()
	p := &Pipeline{
		cfg:     cfg,
		pointer: newPointerState(),
		bg:      newBackgroundStage(),
		comp:    newCompositeStage(),
		now:     time.Now,
	}
	p.params.refrostRate.snap(cfg.RefrostRate)
	p.params.brushRadius.snap(cfg.BrushRadius)
	p.params.pixelRatio.snap(cfg.PixelRatio)
	p.params.chromaticAberration.snap(cfg.ChromaticAberration)
	p.params.reflectivity.snap(cfg.Reflectivity)
	p.gate.lastActivity = p.now()
	return p
}

// SetSize updates the viewport to w x h logical pixels, recomputing the
// derived resolutions and resizing every render target together. A
// non-positive dimension is not an error: it pauses ticking until a valid
// size arrives. Calling SetSize with dimensions that produce an identical
// resolution set is a no-op and preserves all simulation state.
func (p *Pipeline) SetSize(w, h int) {
	if p.disposed {
		return
	}
	if w <= 0 || h <= 0 {
		if p.viewportOK {
			logger().Debug("frost: invalid viewport, pausing", "w", w, "h", h)
		}
		p.viewportOK = false
		return
	}
	scale := p.cfg.DeviceScaleFactor
	if ratioCap := p.params.pixelRatio.current; ratioCap < scale {
		scale = ratioCap
	}
	rs := computeResolutions(w, h, scale)
	p.viewportOK = true
	if rs == p.res && p.buf != nil {
		p.vw, p.vh = w, h
		return
	}
	p.vw, p.vh = w, h
	p.res = rs
	if p.buf == nil {
		p.buf = newDoubleBuffer(rs.simW, rs.simH)
	} else {
		p.buf.resize(rs.simW, rs.simH)
	}
	p.simTex.resize(rs.simW, rs.simH)
	p.bg.resize(rs)
	p.simDirty = true
	p.bgDirty = true
	if p.phase == phaseUninitialized {
		p.phase = phaseSized
	}
	logger().Debug("frost: resized",
		"full", [2]int{rs.fullW, rs.fullH},
		"sim", [2]int{rs.simW, rs.simH},
		"blur", [2]int{rs.blurW, rs.blurH})
}

// OnPointerUpdate records a raw pointer sample in canvas-local pixels with y
// measured from the bottom (GPU texture convention). active=false clears
// pointer influence, as on pointer-leave or touch-end.
func (p *Pipeline) OnPointerUpdate(x, y float64, active bool) {
	if p.disposed {
		return
	}
	p.pointer.update(x, y, active)
	if active {
		p.gate.lastActivity = p.now()
	}
}

// SetOption sets the target value of a tunable option by name. The live
// value glides toward the target over subsequent ticks. Returns an error for
// an unrecognized option name.
func (p *Pipeline) SetOption(name string, value float64) error {
	return p.params.setOption(name, value)
}

// Option returns the current (smoothed) value of an option by name.
func (p *Pipeline) Option(name string) (float64, error) {
	return p.params.option(name)
}

// --- Media binding ---

// BeginMediaRequest stamps a new media request and returns its id. Any
// result delivered for an earlier id is silently discarded. Most callers
// want [Pipeline.LoadMedia] or [Pipeline.SetMedia] instead.
func (p *Pipeline) BeginMediaRequest() uint64 {
	p.mediaGen++
	if p.phase == phaseSized {
		p.phase = phaseMediaPending
	}
	return p.mediaGen
}

// ProvideFrame delivers a loaded media source for the given request id.
// Safe to call from any goroutine; the result is applied at the start of the
// next tick, and discarded (with the source disposed) if the id has been
// superseded.
func (p *Pipeline) ProvideFrame(id uint64, src MediaSource) {
	p.inbox.post(mediaResult{id: id, src: src})
}

// ReportFailure delivers a load failure for the given request id. Safe to
// call from any goroutine. Failures for superseded ids are dropped without
// reporting.
func (p *Pipeline) ReportFailure(id uint64, err error) {
	p.inbox.post(mediaResult{id: id, err: err})
}

// LoadMedia starts an asynchronous image load. open is invoked on a loader
// goroutine and its reader is decoded with the standard image codecs. The
// returned id identifies the request; starting another load supersedes it.
func (p *Pipeline) LoadMedia(open func() (io.ReadCloser, error)) uint64 {
	id := p.BeginMediaRequest()
	go func() {
		r, err := open()
		if err != nil {
			p.ReportFailure(id, err)
			return
		}
		defer r.Close()
		src, err := decodeImageSource(r)
		if err != nil {
			p.ReportFailure(id, err)
			return
		}
		p.ProvideFrame(id, src)
	}()
	return id
}

// SetMedia binds a media source immediately, superseding any in-flight load.
func (p *Pipeline) SetMedia(src MediaSource) {
	id := p.BeginMediaRequest()
	p.applyMediaResult(mediaResult{id: id, src: src})
}

// Media returns the currently bound media source, or nil.
func (p *Pipeline) Media() MediaSource { return p.media }

// applyMediaResult is the single point where load outcomes touch pipeline
// state, guarded by request-id comparison. Stale results are discarded and
// their resources disposed; the bound resource is never disposed here unless
// it is being replaced.
func (p *Pipeline) applyMediaResult(r mediaResult) {
	if p.disposed || r.id != p.mediaGen {
		if r.src != nil {
			r.src.Dispose()
		}
		if r.err == nil && r.src != nil {
			logger().Warn("frost: discarding superseded media load", "id", r.id)
		}
		return
	}
	if r.err != nil {
		logger().Warn("frost: media load failed", "id", r.id, "err", r.err)
		if p.phase == phaseMediaPending {
			p.phase = phaseSized
		}
		if p.cfg.OnMediaError != nil {
			p.cfg.OnMediaError(r.err)
		}
		return
	}
	if p.media != nil {
		p.media.Dispose()
	}
	p.media = r.src
	p.bgDirty = true
	p.phase = phaseMediaReady
	w, h := r.src.Size()
	logger().Info("frost: media bound", "id", r.id, "w", w, "h", h, "dynamic", r.src.Dynamic())
}

// --- Lifecycle ---

// Pause suspends ticking without releasing any resource. Intended to be
// driven by an external visibility signal.
func (p *Pipeline) Pause() {
	if !p.disposed && !p.paused {
		p.paused = true
		logger().Debug("frost: paused")
	}
}

// Resume restarts ticking after Pause.
func (p *Pipeline) Resume() {
	if !p.disposed && p.paused {
		p.paused = false
		logger().Debug("frost: resumed")
	}
}

// Paused reports whether the pipeline is explicitly paused.
func (p *Pipeline) Paused() bool { return p.paused }

// Dispose releases all render targets and the bound media, and invalidates
// any in-flight load; a load result arriving afterwards is released on
// delivery. Idempotent; the pipeline must not be used afterwards.
func (p *Pipeline) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.mediaGen++ // any in-flight load result now fails the id check
	if p.media != nil {
		p.media.Dispose()
		p.media = nil
	}
	p.inbox.close(func(r mediaResult) {
		if r.src != nil {
			r.src.Dispose()
		}
	})
	p.simTex.dispose()
	p.bg.dispose()
	p.buf = nil
	p.transitions = nil
	logger().Info("frost: disposed")
}

// --- Per-tick sequence ---

// Update advances the pipeline one tick: pending media results are applied,
// transitions and smoothed parameters advance, and (unless paused, unsized,
// or idle-throttled) the physics stage produces the next simulation field
// and the buffers swap. GPU work happens later in [Pipeline.Draw].
func (p *Pipeline) Update() {
	if p.disposed {
		return
	}
	p.inbox.drain(p.applyMediaResult)
	p.stepTransitions()
	p.params.step()
	p.pointer.step()

	if p.paused || !p.viewportOK || p.buf == nil {
		return
	}
	dynamic := p.media != nil && p.media.Dynamic()
	if !p.gate.allow(p.now(), dynamic) {
		return
	}

	p.ticks++
	stepSimulation(p.buf.current(), p.buf.nextField(), p.frameInput())
	p.buf.swap()
	p.simDirty = true
	if dynamic {
		p.bgDirty = true
	}
}

// frameInput converts smoothed pointer and parameter state into simulation
// space for the physics stage.
func (p *Pipeline) frameInput() frameInput {
	scaleX := float64(p.res.simW) / float64(p.vw)
	scaleY := float64(p.res.simH) / float64(p.vh)
	radius := p.params.brushRadius.current * float64(minInt(p.vw, p.vh)) * scaleX
	return frameInput{
		pointer: Vec2{
			X: p.pointer.smoothed.X * scaleX,
			Y: p.pointer.smoothed.Y * scaleY,
		},
		pointerActive: p.pointer.active,
		brushRadius:   radius,
		refrostRate:   p.params.refrostRate.current,
	}
}

// Draw renders one composited frame to screen, or clears it when no media is
// bound. Deferred GPU work from Update (simulation texture upload, background
// preparation) is flushed here first.
func (p *Pipeline) Draw(screen *ebiten.Image) {
	if p.disposed {
		return
	}
	if !p.viewportOK || p.buf == nil || p.media == nil {
		screen.Fill(p.cfg.ClearColor.toRGBA())
		p.captures.flush(screen)
		return
	}
	if p.simDirty {
		p.simTex.upload(p.buf.current())
		p.simDirty = false
	}
	if p.bgDirty {
		p.bg.prepare(p.media)
		p.bgDirty = false
	}

	sb := screen.Bounds()
	p.comp.render(screen, p.simTex.image, p.bg.sharp, p.bg.blurred(), compositeInput{
		pointer: Vec2{
			X: p.pointer.smoothed.X * float64(sb.Dx()) / float64(p.vw),
			Y: (float64(p.vh) - p.pointer.smoothed.Y) * float64(sb.Dy()) / float64(p.vh),
		},
		pointerActive: p.pointer.active,
		sheenRadius:   p.params.brushRadius.current * float64(minInt(sb.Dx(), sb.Dy())),
		aberration:    p.params.chromaticAberration.current,
		reflectivity:  p.params.reflectivity.current,
		time:          float64(p.ticks) / 60,
	})
	p.captures.flush(screen)
}

// Field returns the current simulation field, or nil before the first
// SetSize. Read-only access for diagnostics and tests.
func (p *Pipeline) Field() *Field {
	if p.buf == nil {
		return nil
	}
	return p.buf.current()
}

// Resolutions returns the derived full, simulation, and blur resolutions.
func (p *Pipeline) Resolutions() (fullW, fullH, simW, simH, blurW, blurH int) {
	return p.res.fullW, p.res.fullH, p.res.simW, p.res.simH, p.res.blurW, p.res.blurH
}
