package frost

import (
	"math"
	"math/rand/v2"
	"testing"
)

// tick advances a double buffer one simulation step.
func tick(b *doubleBuffer, in frameInput) {
	stepSimulation(b.current(), b.nextField(), in)
	b.swap()
}

// --- Clamp invariant ---

func TestAllChannelsStayInUnitRange(t *testing.T) {
	b := newDoubleBuffer(32, 32)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		in := frameInput{
			pointer:       Vec2{X: rng.Float64() * 32, Y: rng.Float64() * 32},
			pointerActive: rng.Float64() < 0.7,
			brushRadius:   1 + rng.Float64()*12,
			refrostRate:   rng.Float64() * 0.005,
		}
		tick(b, in)

		f := b.current()
		for y := 0; y < 32; y++ {
			for x := 0; x < 32; x++ {
				clear, water, drip := f.At(x, y)
				if clear < 0 || clear > 1 || water < 0 || water > 1 || drip < 0 || drip > 1 {
					t.Fatalf("tick %d: cell (%d,%d) = (%f,%f,%f) outside [0,1]", i, x, y, clear, water, drip)
				}
			}
		}
	}
}

// --- Drip advection ---

func TestDripAdvectionDeterminism(t *testing.T) {
	const (
		w, h  = 8, 64
		seedX = 4
		seedY = 60
	)
	b := newDoubleBuffer(w, h)
	b.current().set(seedX, seedY, 0, 0, 1)

	in := frameInput{pointerActive: false}
	for k := 1; k <= 10; k++ {
		tick(b, in)

		// After k ticks the drip peak sits 2k cells below the seed,
		// attenuated by the retention factor each step.
		wantY := seedY - dripAdvectStep*k
		want := math.Pow(dripRetention, float64(k))
		_, _, got := b.current().At(seedX, wantY)
		if math.Abs(float64(got)-want) > 1e-4 {
			t.Errorf("tick %d: drip at offset %d = %f, want %f", k, dripAdvectStep*k, got, want)
		}

		// The origin holds nothing once the drip has moved on: advection
		// replaces, it does not blend.
		if _, _, origin := b.current().At(seedX, seedY); origin != 0 {
			t.Errorf("tick %d: residual drip %f at origin, want 0", k, origin)
		}
	}
}

func TestDripClearsFrostBehindIt(t *testing.T) {
	b := newDoubleBuffer(4, 16)
	b.current().set(2, 12, 0, 0, 1)

	tick(b, frameInput{})

	clear, _, drip := b.current().At(2, 10)
	if drip == 0 {
		t.Fatal("drip should have advected to (2,10)")
	}
	want := drip * dripClearFactor
	if math.Abs(float64(clear-want)) > 1e-4 {
		t.Errorf("clear = %f, want %f (dripClearFactor * drip)", clear, want)
	}
}

// --- Wipe and water ---

func TestWipeGeneratesWater(t *testing.T) {
	b := newDoubleBuffer(16, 16)
	in := frameInput{
		pointer:       Vec2{X: 8, Y: 8},
		pointerActive: true,
		brushRadius:   4,
	}
	tick(b, in)

	clear, water, _ := b.current().At(8, 8)
	if clear < 0.99 {
		t.Errorf("center clear = %f, want ~1 under the brush", clear)
	}
	// Half the wiped frost becomes water, minus one evaporation step.
	want := float32(wipeWaterFactor * evaporationRate)
	if math.Abs(float64(water-want)) > 1e-4 {
		t.Errorf("center water = %f, want %f", water, want)
	}
}

func TestBrushFalloffIsRadial(t *testing.T) {
	b := newDoubleBuffer(32, 32)
	in := frameInput{
		pointer:       Vec2{X: 16, Y: 16},
		pointerActive: true,
		brushRadius:   8,
	}
	tick(b, in)

	f := b.current()
	c0, _, _ := f.At(16, 16)
	c1, _, _ := f.At(20, 16)
	c2, _, _ := f.At(23, 16)
	if !(c0 > c1 && c1 > c2) {
		t.Errorf("clear should fall off with distance: %f, %f, %f", c0, c1, c2)
	}
	if c3, _, _ := f.At(31, 16); c3 != 0 {
		t.Errorf("outside the brush radius clear = %f, want 0", c3)
	}
}

// --- Evaporation and refrost ---

func TestWaterEvaporates(t *testing.T) {
	b := newDoubleBuffer(4, 4)
	b.current().set(1, 1, 1, 1, 0)

	tick(b, frameInput{})

	_, water, _ := b.current().At(1, 1)
	want := float32(evaporationRate)
	if math.Abs(float64(water-want)) > 1e-4 {
		t.Errorf("water after one tick = %f, want %f", water, want)
	}
}

func TestRefrostRegrowsDryFrost(t *testing.T) {
	b := newDoubleBuffer(4, 4)
	b.current().set(1, 1, 1, 0, 0) // wiped clear, bone dry
	b.current().set(2, 2, 1, 1, 0) // wiped clear, soaked

	in := frameInput{refrostRate: 0.004}
	tick(b, in)

	dry, _, _ := b.current().At(1, 1)
	wet, _, _ := b.current().At(2, 2)
	if dry >= 1 {
		t.Error("dry cell should lose clearness to refrost")
	}
	if wet <= dry {
		t.Errorf("wet cell (%f) should resist refrost better than dry cell (%f)", wet, dry)
	}
}

// --- End-to-end field scenarios ---

func TestUntouchedFieldStaysFrosted(t *testing.T) {
	b := newDoubleBuffer(16, 16)
	in := frameInput{refrostRate: 0.002}
	for i := 0; i < 50; i++ {
		tick(b, in)
	}
	f := b.current()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if c, w, d := f.At(x, y); c != 0 || w != 0 || d != 0 {
				t.Fatalf("cell (%d,%d) = (%f,%f,%f), want all zero with no input", x, y, c, w, d)
			}
		}
	}
}

func TestSingleWipeThenRelease(t *testing.T) {
	b := newDoubleBuffer(64, 64)
	tick(b, frameInput{
		pointer:       Vec2{X: 32, Y: 32},
		pointerActive: true,
		brushRadius:   12,
	})
	tick(b, frameInput{pointerActive: false})

	center, water, _ := b.current().At(32, 32)
	if center < 0.9 {
		t.Errorf("center clear = %f, want near 1 after wipe", center)
	}
	if water <= 0 {
		t.Errorf("center water = %f, want > 0 after wipe", water)
	}
	if c, w, d := b.current().At(2, 2); c != 0 || w != 0 || d != 0 {
		t.Errorf("far cell = (%f,%f,%f), want untouched", c, w, d)
	}
}
