package frost

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// fieldChannels is the number of scalar channels stored per simulation cell:
// clear (frost wiped away), water (accumulated liquid), drip (flowing liquid).
const fieldChannels = 3

// Field is a 2D grid of simulation cells at simulation resolution. Rows are
// stored bottom-up (y=0 is the bottom row), matching the GPU texture
// convention used for pointer coordinates. All channel values stay in [0, 1].
type Field struct {
	width, height int
	data          []float32 // interleaved clear, water, drip per cell
}

// newField allocates a Field of the given size, fully frosted (all zero).
func newField(width, height int) *Field {
	return &Field{
		width:  width,
		height: height,
		data:   make([]float32, width*height*fieldChannels),
	}
}

// Width returns the field width in simulation pixels.
func (f *Field) Width() int { return f.width }

// Height returns the field height in simulation pixels.
func (f *Field) Height() int { return f.height }

// index returns the data offset of the cell at (x, y).
func (f *Field) index(x, y int) int {
	return (y*f.width + x) * fieldChannels
}

// At returns the (clear, water, drip) channels of the cell at (x, y).
func (f *Field) At(x, y int) (clear, water, drip float32) {
	i := f.index(x, y)
	return f.data[i], f.data[i+1], f.data[i+2]
}

// set writes all three channels of the cell at (x, y).
func (f *Field) set(x, y int, clear, water, drip float32) {
	i := f.index(x, y)
	f.data[i] = clear
	f.data[i+1] = water
	f.data[i+2] = drip
}

// dripAt returns only the drip channel, with out-of-range rows reading as 0.
// Used by the advection step to sample above the top edge.
func (f *Field) dripAt(x, y int) float32 {
	if y < 0 || y >= f.height {
		return 0
	}
	return f.data[f.index(x, y)+2]
}

// reset zeroes every cell, restoring the fully frosted state.
func (f *Field) reset() {
	clearSlice(f.data)
}

func clearSlice(s []float32) {
	for i := range s {
		s[i] = 0
	}
}

// doubleBuffer owns the pair of simulation fields. The physics stage writes
// into next() while compositing and the following tick's history read from
// current(); swap() exchanges the roles after each tick. A field is never
// read and written in the same pass.
type doubleBuffer struct {
	curr *Field
	next *Field
}

// newDoubleBuffer allocates both fields at the given simulation resolution.
func newDoubleBuffer(width, height int) *doubleBuffer {
	return &doubleBuffer{
		curr: newField(width, height),
		next: newField(width, height),
	}
}

// current returns the field other stages may sample.
func (b *doubleBuffer) current() *Field { return b.curr }

// nextField returns the field the physics stage is about to overwrite.
func (b *doubleBuffer) nextField() *Field { return b.next }

// swap exchanges which field is current vs next. O(1), no copy.
func (b *doubleBuffer) swap() {
	b.curr, b.next = b.next, b.curr
}

// resize reallocates both fields at the new simulation resolution and resets
// content to fully frosted. Prior drips are not preserved: a dimension change
// invalidates the spatial meaning of the field. No-op if the size is unchanged.
func (b *doubleBuffer) resize(width, height int) {
	if b.curr.width == width && b.curr.height == height {
		return
	}
	b.curr = newField(width, height)
	b.next = newField(width, height)
}

// fieldTexture mirrors the current simulation field into an ebiten.Image so
// the composite shader can sample it. Channel mapping: R=clear, G=water,
// B=drip, A=255. Rows are flipped during upload because the field is stored
// bottom-up while textures are top-down.
type fieldTexture struct {
	image  *ebiten.Image
	pixels []byte // persistent upload buffer, w*h*4
}

// resize reallocates the texture and upload buffer for a new simulation size.
func (t *fieldTexture) resize(width, height int) {
	if t.image != nil {
		t.image.Deallocate()
	}
	t.image = ebiten.NewImage(width, height)
	needed := width * height * 4
	if cap(t.pixels) < needed {
		t.pixels = make([]byte, needed)
	}
	t.pixels = t.pixels[:needed]
}

// upload converts the field to RGBA8 and writes it into the texture.
func (t *fieldTexture) upload(f *Field) {
	w, h := f.width, f.height
	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w * 4 // flip: field row y lands on texture row h-1-y
		src := y * w * fieldChannels
		for x := 0; x < w; x++ {
			clear := f.data[src]
			water := f.data[src+1]
			drip := f.data[src+2]
			o := row + x*4
			t.pixels[o] = byte(clear*255 + 0.5)
			t.pixels[o+1] = byte(water*255 + 0.5)
			t.pixels[o+2] = byte(drip*255 + 0.5)
			t.pixels[o+3] = 255
			src += fieldChannels
		}
	}
	t.image.WritePixels(t.pixels)
}

// dispose releases the texture. Safe to call more than once.
func (t *fieldTexture) dispose() {
	if t.image != nil {
		t.image.Deallocate()
		t.image = nil
	}
}
