package frost

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// revealEdge is the clear-channel value at which the sharp layer becomes
// fully visible. Visibility ramps smoothly from 0 to revealEdge so partial
// wiping shows a soft transition rather than a hard edge.
const revealEdge = 0.4

// revealFactor mirrors the shader's reveal curve: the blend weight of the
// sharp layer as a smoothed, non-decreasing function of the clear channel.
func revealFactor(clear float64) float64 {
	return smoothstep(0, revealEdge, clear)
}

// compositeShaderSrc fuses the simulation field with the prepared
// backgrounds. Source 0 is the simulation texture (R=clear, G=water, B=drip),
// source 1 the sharp background, source 2 the blurred background; the three
// have different resolutions, so each is sampled through its own origin/size
// mapping with manual bilinear filtering (Kage texel fetches are unfiltered).
//
// Disturbance from water and drip drives a gradient-based distortion vector
// that approximates refraction at droplet edges, plus a chromatic shift.
// Wet areas get a specular highlight with a hash-based shimmer so the sheen
// never looks static, frosted areas get low-amplitude grain, and an active
// pointer adds a local sheen that fades with distance.
const compositeShaderSrc = `//kage:unit pixels

package main

var Pointer vec2
var PointerActive float
var SheenRadius float
var Aberration float
var Reflectivity float
var Time float

const distortionScale = -10.0
const sheenStrength = 0.08
const grainStrength = 0.06

func hash(p vec2) float {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453)
}

func bilinearSrc0(p vec2) vec4 {
	q := p - 0.5
	i := floor(q)
	f := q - i
	c00 := imageSrc0At(i + vec2(0.5, 0.5))
	c10 := imageSrc0At(i + vec2(1.5, 0.5))
	c01 := imageSrc0At(i + vec2(0.5, 1.5))
	c11 := imageSrc0At(i + vec2(1.5, 1.5))
	return mix(mix(c00, c10, f.x), mix(c01, c11, f.x), f.y)
}

func bilinearSrc1(p vec2) vec4 {
	q := p - 0.5
	i := floor(q)
	f := q - i
	c00 := imageSrc1At(i + vec2(0.5, 0.5))
	c10 := imageSrc1At(i + vec2(1.5, 0.5))
	c01 := imageSrc1At(i + vec2(0.5, 1.5))
	c11 := imageSrc1At(i + vec2(1.5, 1.5))
	return mix(mix(c00, c10, f.x), mix(c01, c11, f.x), f.y)
}

func bilinearSrc2(p vec2) vec4 {
	q := p - 0.5
	i := floor(q)
	f := q - i
	c00 := imageSrc2At(i + vec2(0.5, 0.5))
	c10 := imageSrc2At(i + vec2(1.5, 0.5))
	c01 := imageSrc2At(i + vec2(0.5, 1.5))
	c11 := imageSrc2At(i + vec2(1.5, 1.5))
	return mix(mix(c00, c10, f.x), mix(c01, c11, f.x), f.y)
}

func disturbanceAt(p vec2) float {
	s := bilinearSrc0(p)
	return (s.g*0.2 + s.b) * 0.5
}

// sampleScene fetches the sharp (source 1) color at a normalized uv with a
// per-channel chromatic shift.
func sampleScene(uv vec2, shift float) vec3 {
	origin := imageSrc1Origin()
	size := imageSrc1Size()
	r := bilinearSrc1(origin + (uv+vec2(shift, 0))*size).r
	g := bilinearSrc1(origin + uv*size).g
	b := bilinearSrc1(origin + (uv-vec2(shift, 0))*size).b
	return vec3(r, g, b)
}

// sampleBlurred fetches the blurred (source 2) color at a normalized uv with
// a per-channel chromatic shift.
func sampleBlurred(uv vec2, shift float) vec3 {
	origin := imageSrc2Origin()
	size := imageSrc2Size()
	r := bilinearSrc2(origin + (uv+vec2(shift, 0))*size).r
	g := bilinearSrc2(origin + uv*size).g
	b := bilinearSrc2(origin + (uv-vec2(shift, 0))*size).b
	return vec3(r, g, b)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	simOrigin := imageSrc0Origin()
	simSize := imageSrc0Size()
	uv := (src - simOrigin) / simSize

	sim := bilinearSrc0(src)
	clearF := sim.r
	waterF := sim.g
	dripF := sim.b

	// Gradient of the disturbance scalar by central difference, one
	// simulation texel apart, approximating refraction at droplet edges.
	gx := disturbanceAt(src+vec2(1, 0)) - disturbanceAt(src-vec2(1, 0))
	gy := disturbanceAt(src+vec2(0, 1)) - disturbanceAt(src-vec2(0, 1))
	distortion := vec2(gx, gy) * 0.5 * distortionScale / simSize

	disturbance := (waterF*0.2 + dripF) * 0.5
	shift := Aberration * disturbance

	warped := clamp(uv+distortion, vec2(0), vec2(1))
	scene := sampleScene(warped, shift)
	blurred := sampleBlurred(warped, shift)

	reveal := smoothstep(0.0, 0.4, clearF)
	rgb := mix(blurred, scene, reveal)

	// Specular highlight on wet areas, modulated by per-pixel shimmer.
	wet := waterF + dripF
	shimmer := 0.5 + 0.5*hash(floor(src*4)+vec2(floor(Time*8), 0))
	rgb += vec3(wet * wet * Reflectivity * shimmer)

	// Pointer sheen fading with distance.
	if PointerActive > 0.5 {
		sheen := 1 - smoothstep(0.0, SheenRadius*3, distance(dst.xy, Pointer))
		rgb += vec3(sheen * sheenStrength)
	}

	// Frost grain: only where the surface is still frosted.
	grain := (hash(dst.xy) - 0.5) * grainStrength * (1 - reveal)
	rgb += vec3(grain)

	return vec4(clamp(rgb, vec3(0), vec3(1)), 1)
}
`

var compositeShader *ebiten.Shader

func ensureCompositeShader() *ebiten.Shader {
	if compositeShader == nil {
		s, err := ebiten.NewShader([]byte(compositeShaderSrc))
		if err != nil {
			panic("frost: failed to compile composite shader: " + err.Error())
		}
		compositeShader = s
	}
	return compositeShader
}

// compositeInput carries the per-frame uniforms for the compositing pass.
// Pointer coordinates are in output pixels with top-down y (texture row
// order), already converted from the bottom-up input convention.
type compositeInput struct {
	pointer       Vec2
	pointerActive bool
	sheenRadius   float64 // brush radius in output pixels
	aberration    float64
	reflectivity  float64
	time          float64
}

// compositeStage issues the final fullscreen pass. The three source textures
// have different sizes, so the pass uses DrawTrianglesShader with a
// fullscreen quad whose src coordinates span the simulation texture; the
// sharp and blurred textures are addressed through their own origin/size
// inside the shader.
type compositeStage struct {
	uniforms   map[string]any
	pointerF32 [2]float32 // persistent buffer to avoid per-frame slice escape
	vertices   [4]ebiten.Vertex
	indices    [6]uint16
	shaderOp   ebiten.DrawTrianglesShaderOptions
}

func newCompositeStage() *compositeStage {
	c := &compositeStage{
		uniforms: make(map[string]any, 6),
		indices:  [6]uint16{0, 1, 2, 1, 3, 2},
	}
	c.uniforms["Pointer"] = c.pointerF32[:]
	for i := range c.vertices {
		c.vertices[i].ColorR = 1
		c.vertices[i].ColorG = 1
		c.vertices[i].ColorB = 1
		c.vertices[i].ColorA = 1
	}
	return c
}

// render composites the simulation texture with the sharp and blurred
// backgrounds into dst.
func (c *compositeStage) render(dst, sim, sharp, blurred *ebiten.Image, in compositeInput) {
	shader := ensureCompositeShader()

	db := dst.Bounds()
	sb := sim.Bounds()
	dx0, dy0 := float32(db.Min.X), float32(db.Min.Y)
	dx1, dy1 := float32(db.Max.X), float32(db.Max.Y)
	sx0, sy0 := float32(sb.Min.X), float32(sb.Min.Y)
	sx1, sy1 := float32(sb.Max.X), float32(sb.Max.Y)

	c.vertices[0].DstX, c.vertices[0].DstY, c.vertices[0].SrcX, c.vertices[0].SrcY = dx0, dy0, sx0, sy0
	c.vertices[1].DstX, c.vertices[1].DstY, c.vertices[1].SrcX, c.vertices[1].SrcY = dx1, dy0, sx1, sy0
	c.vertices[2].DstX, c.vertices[2].DstY, c.vertices[2].SrcX, c.vertices[2].SrcY = dx0, dy1, sx0, sy1
	c.vertices[3].DstX, c.vertices[3].DstY, c.vertices[3].SrcX, c.vertices[3].SrcY = dx1, dy1, sx1, sy1

	c.pointerF32[0] = float32(in.pointer.X)
	c.pointerF32[1] = float32(in.pointer.Y)
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	active := float32(0)
	if in.pointerActive {
		active = 1
	}
	c.uniforms["PointerActive"] = active
	c.uniforms["SheenRadius"] = float32(in.sheenRadius)
	c.uniforms["Aberration"] = float32(in.aberration)
	c.uniforms["Reflectivity"] = float32(in.reflectivity)
	c.uniforms["Time"] = float32(in.time)

	c.shaderOp.Images[0] = sim
	c.shaderOp.Images[1] = sharp
	c.shaderOp.Images[2] = blurred
	c.shaderOp.Uniforms = c.uniforms
	dst.DrawTrianglesShader(c.vertices[:], c.indices[:], shader, &c.shaderOp)
}
