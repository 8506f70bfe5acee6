package frost

import "testing"

// --- Field ---

func TestFieldStartsFullyFrosted(t *testing.T) {
	f := newField(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			clear, water, drip := f.At(x, y)
			if clear != 0 || water != 0 || drip != 0 {
				t.Fatalf("cell (%d,%d) = (%f,%f,%f), want all zero", x, y, clear, water, drip)
			}
		}
	}
}

func TestFieldSetAt(t *testing.T) {
	f := newField(4, 4)
	f.set(1, 2, 0.25, 0.5, 0.75)
	clear, water, drip := f.At(1, 2)
	if clear != 0.25 || water != 0.5 || drip != 0.75 {
		t.Errorf("At(1,2) = (%f,%f,%f), want (0.25,0.5,0.75)", clear, water, drip)
	}
	// Neighbors untouched.
	if c, w, d := f.At(2, 2); c != 0 || w != 0 || d != 0 {
		t.Errorf("At(2,2) = (%f,%f,%f), want all zero", c, w, d)
	}
}

func TestFieldDripAtOutOfRange(t *testing.T) {
	f := newField(4, 4)
	f.set(0, 3, 0, 0, 1)
	if got := f.dripAt(0, 4); got != 0 {
		t.Errorf("dripAt above top = %f, want 0", got)
	}
	if got := f.dripAt(0, -1); got != 0 {
		t.Errorf("dripAt below bottom = %f, want 0", got)
	}
	if got := f.dripAt(0, 3); got != 1 {
		t.Errorf("dripAt(0,3) = %f, want 1", got)
	}
}

func TestFieldReset(t *testing.T) {
	f := newField(4, 4)
	f.set(2, 2, 1, 1, 1)
	f.reset()
	if c, w, d := f.At(2, 2); c != 0 || w != 0 || d != 0 {
		t.Errorf("after reset At(2,2) = (%f,%f,%f), want all zero", c, w, d)
	}
}

// --- doubleBuffer ---

func TestDoubleBufferSwap(t *testing.T) {
	b := newDoubleBuffer(4, 4)
	curr, next := b.current(), b.nextField()
	if curr == next {
		t.Fatal("current and next must be distinct fields")
	}
	b.swap()
	if b.current() != next {
		t.Error("after swap, current should be the previous next")
	}
	if b.nextField() != curr {
		t.Error("after swap, next should be the previous current")
	}
}

func TestDoubleBufferResizeResets(t *testing.T) {
	b := newDoubleBuffer(4, 4)
	b.current().set(1, 1, 1, 1, 1)
	b.resize(8, 8)
	if b.current().Width() != 8 || b.current().Height() != 8 {
		t.Errorf("resized to %dx%d, want 8x8", b.current().Width(), b.current().Height())
	}
	if c, w, d := b.current().At(1, 1); c != 0 || w != 0 || d != 0 {
		t.Error("resize should reset content to fully frosted")
	}
}

func TestDoubleBufferResizeSameSizeNoOp(t *testing.T) {
	b := newDoubleBuffer(4, 4)
	b.current().set(1, 1, 0.5, 0, 0)
	curr := b.current()
	b.resize(4, 4)
	if b.current() != curr {
		t.Error("same-size resize should not reallocate")
	}
	if c, _, _ := b.current().At(1, 1); c != 0.5 {
		t.Error("same-size resize should preserve state")
	}
}

// --- fieldTexture upload ---

func TestFieldTextureUploadFlipsRows(t *testing.T) {
	var tex fieldTexture
	tex.resize(2, 2)
	defer tex.dispose()

	f := newField(2, 2)
	f.set(0, 0, 1, 0, 0) // bottom-left: full clear
	f.set(1, 1, 0, 0, 1) // top-right: full drip
	tex.upload(f)

	// Texture rows are top-down: field (0,0) lands at texture row 1.
	bottomLeft := tex.pixels[(1*2+0)*4:]
	if bottomLeft[0] != 255 || bottomLeft[2] != 0 {
		t.Errorf("bottom-left texel = (%d,%d,%d), want R=255", bottomLeft[0], bottomLeft[1], bottomLeft[2])
	}
	topRight := tex.pixels[(0*2+1)*4:]
	if topRight[2] != 255 || topRight[0] != 0 {
		t.Errorf("top-right texel = (%d,%d,%d), want B=255", topRight[0], topRight[1], topRight[2])
	}
	if bottomLeft[3] != 255 || topRight[3] != 255 {
		t.Error("alpha should be opaque")
	}
}

func TestFieldTextureDisposeIdempotent(t *testing.T) {
	var tex fieldTexture
	tex.resize(2, 2)
	tex.dispose()
	tex.dispose() // must not panic
	if tex.image != nil {
		t.Error("image should be nil after dispose")
	}
}
