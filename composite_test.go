package frost

import "testing"

// --- Reveal curve ---

func TestRevealFactorMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		clear := float64(i) / 100
		r := revealFactor(clear)
		if r < prev {
			t.Fatalf("revealFactor(%f) = %f decreased from %f", clear, r, prev)
		}
		prev = r
	}
}

func TestRevealFactorEndpoints(t *testing.T) {
	if got := revealFactor(0); got != 0 {
		t.Errorf("revealFactor(0) = %f, want 0", got)
	}
	if got := revealFactor(revealEdge); got != 1 {
		t.Errorf("revealFactor(%f) = %f, want 1", revealEdge, got)
	}
	if got := revealFactor(1); got != 1 {
		t.Errorf("revealFactor(1) = %f, want 1 (saturated)", got)
	}
	mid := revealFactor(revealEdge / 2)
	if mid <= 0 || mid >= 1 {
		t.Errorf("revealFactor at half edge = %f, want a soft transition in (0,1)", mid)
	}
}

// --- Shader ---

func TestCompositeShaderCompiles(t *testing.T) {
	if ensureCompositeShader() == nil {
		t.Fatal("composite shader should compile")
	}
}

// --- Stage geometry ---

func TestCompositeStageQuadIndices(t *testing.T) {
	c := newCompositeStage()
	want := [6]uint16{0, 1, 2, 1, 3, 2}
	if c.indices != want {
		t.Errorf("indices = %v, want %v", c.indices, want)
	}
	for i, v := range c.vertices {
		if v.ColorR != 1 || v.ColorG != 1 || v.ColorB != 1 || v.ColorA != 1 {
			t.Errorf("vertex %d color = (%f,%f,%f,%f), want white", i, v.ColorR, v.ColorG, v.ColorB, v.ColorA)
		}
	}
}

func TestCompositeStagePointerUniformIsPersistent(t *testing.T) {
	c := newCompositeStage()
	slice, ok := c.uniforms["Pointer"].([]float32)
	if !ok {
		t.Fatal("Pointer uniform should be a persistent []float32")
	}
	c.pointerF32[0] = 42
	c.pointerF32[1] = 7
	if slice[0] != 42 || slice[1] != 7 {
		t.Error("Pointer uniform slice should alias the persistent buffer")
	}
}
