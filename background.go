package frost

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// coverFit computes the scale and centering offsets that map a srcW x srcH
// image onto a dstW x dstH target with a "cover" policy: scale to fill,
// cropping the overflowing axis. If the destination is wider (in aspect)
// than the source, the top and bottom are cropped; if taller, the left and
// right are cropped. Offsets are <= 0 on the cropped axis.
func coverFit(dstW, dstH, srcW, srcH float64) (scale, offsetX, offsetY float64) {
	if srcW <= 0 || srcH <= 0 {
		return 1, 0, 0
	}
	scale = dstW / srcW
	if s := dstH / srcH; s > scale {
		scale = s
	}
	offsetX = (dstW - srcW*scale) / 2
	offsetY = (dstH - srcH*scale) / 2
	return scale, offsetX, offsetY
}

// blurShaderSrc is a separable Gaussian pass. Direction selects the axis:
// (1,0) for horizontal, (0,1) for vertical. The taps are the discrete
// expansion of the classic 9-tap kernel (the bilinear-folded form with
// weights {0.227, 0.316, 0.070} at offsets {0, 1.385, 3.231} assumes
// hardware linear filtering, which Kage sampling does not provide).
const blurShaderSrc = `//kage:unit pixels

package main

var Direction vec2

// tap samples with coordinates clamped to the source region, so edge pixels
// replicate instead of fetching transparent texels outside the image.
func tap(p vec2) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	return imageSrc0At(clamp(p, origin+vec2(0.5), origin+size-vec2(0.5)))
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	var weights [5]float
	weights[0] = 0.2270270270
	weights[1] = 0.1945945946
	weights[2] = 0.1216216216
	weights[3] = 0.0540540541
	weights[4] = 0.0162162162

	sum := tap(src) * weights[0]
	for i := 1; i < 5; i++ {
		offset := Direction * float(i)
		sum += tap(src+offset) * weights[i]
		sum += tap(src-offset) * weights[i]
	}
	return sum
}
`

// Lazy shader compilation (no sync.Once — the pipeline is single-threaded).
var blurShader *ebiten.Shader

func ensureBlurShader() *ebiten.Shader {
	if blurShader == nil {
		s, err := ebiten.NewShader([]byte(blurShaderSrc))
		if err != nil {
			panic("frost: failed to compile blur shader: " + err.Error())
		}
		blurShader = s
	}
	return blurShader
}

// backgroundStage prepares the two background textures the compositor blends
// between: an aspect-correct full-resolution sharp copy of the media frame,
// and a separably blurred copy at blur resolution. The two blur targets
// ping-pong between the horizontal and vertical passes; unlike the
// simulation they carry no history across frames.
type backgroundStage struct {
	sharp    *ebiten.Image
	blurPing *ebiten.Image
	blurPong *ebiten.Image

	imgOp     ebiten.DrawImageOptions
	shaderOp  ebiten.DrawRectShaderOptions
	uniformsH map[string]any
	uniformsV map[string]any
}

func newBackgroundStage() *backgroundStage {
	b := &backgroundStage{
		uniformsH: map[string]any{"Direction": []float32{1, 0}},
		uniformsV: map[string]any{"Direction": []float32{0, 1}},
	}
	// Each pass fully rewrites its target; blending over the pong target's
	// previous-frame content would leak stale pixels through alpha.
	b.shaderOp.Blend = ebiten.BlendCopy
	return b
}

// resize reallocates all three targets for a new resolution set.
func (b *backgroundStage) resize(rs resolutionSet) {
	b.dispose()
	b.sharp = ebiten.NewImage(rs.fullW, rs.fullH)
	b.blurPing = ebiten.NewImage(rs.blurW, rs.blurH)
	b.blurPong = ebiten.NewImage(rs.blurW, rs.blurH)
}

// prepare runs both sub-stages for the given media frame: the cover-fit copy
// into the sharp target, then the two blur passes. Skipped entirely by the
// pipeline when no media is bound.
func (b *backgroundStage) prepare(src MediaSource) {
	frame := src.Frame()
	if frame == nil {
		return
	}
	b.renderSharp(frame)
	b.renderBlur()
}

// renderSharp draws the media frame into the sharp target with the cover
// policy: scale to fill, crop the excess, center the visible region.
func (b *backgroundStage) renderSharp(frame *ebiten.Image) {
	dst := b.sharp.Bounds()
	fb := frame.Bounds()
	scale, offX, offY := coverFit(
		float64(dst.Dx()), float64(dst.Dy()),
		float64(fb.Dx()), float64(fb.Dy()),
	)
	op := &b.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offX, offY)
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendCopy
	b.sharp.DrawImage(frame, op)
}

// renderBlur downsamples the sharp target to blur resolution and applies the
// horizontal then vertical Gaussian pass. The blurred result ends up in
// blurPing.
func (b *backgroundStage) renderBlur() {
	shader := ensureBlurShader()

	sb := b.sharp.Bounds()
	pb := b.blurPing.Bounds()
	op := &b.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(
		float64(pb.Dx())/float64(sb.Dx()),
		float64(pb.Dy())/float64(sb.Dy()),
	)
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendCopy
	b.blurPing.DrawImage(b.sharp, op)

	sop := &b.shaderOp
	sop.Images[0] = b.blurPing
	sop.Uniforms = b.uniformsH
	b.blurPong.DrawRectShader(pb.Dx(), pb.Dy(), shader, sop)

	sop.Images[0] = b.blurPong
	sop.Uniforms = b.uniformsV
	b.blurPing.DrawRectShader(pb.Dx(), pb.Dy(), shader, sop)
}

// blurred returns the texture holding the completed blur output.
func (b *backgroundStage) blurred() *ebiten.Image { return b.blurPing }

// dispose releases all render targets. Safe to call more than once.
func (b *backgroundStage) dispose() {
	for _, img := range []*ebiten.Image{b.sharp, b.blurPing, b.blurPong} {
		if img != nil {
			img.Deallocate()
		}
	}
	b.sharp, b.blurPing, b.blurPong = nil, nil, nil
}
