package frost

// Downsample factors for the derived render target resolutions. The
// simulation and blur grids are deliberately coarser than the output: the
// simulation for cost, the blur both to soften the image and to amortize the
// kernel (linear upsampling at composite time is part of the frosted look).
const (
	simDownsample  = 4
	blurDownsample = 4
)

// resolutionSet holds the three derived resolutions every render target is
// sized from. It is recomputed on resize only; all dependent targets are
// resized together so they never disagree. The zero value means "unsized".
type resolutionSet struct {
	fullW, fullH int // output resolution after pixel-ratio scaling
	simW, simH   int // simulation field resolution
	blurW, blurH int // blur pass resolution
}

// computeResolutions derives the resolution set for a viewport of w x h
// logical pixels. scale is the effective pixel density: the device scale
// factor capped by the pixelRatio option. Every derived dimension is clamped
// to at least 1.
func computeResolutions(w, h int, scale float64) resolutionSet {
	if scale <= 0 {
		scale = 1
	}
	fullW := maxInt(1, int(float64(w)*scale))
	fullH := maxInt(1, int(float64(h)*scale))
	return resolutionSet{
		fullW: fullW,
		fullH: fullH,
		simW:  maxInt(1, fullW/simDownsample),
		simH:  maxInt(1, fullH/simDownsample),
		blurW: maxInt(1, fullW/blurDownsample),
		blurH: maxInt(1, fullH/blurDownsample),
	}
}

// valid reports whether the set describes a drawable viewport.
func (r resolutionSet) valid() bool {
	return r.fullW > 0 && r.fullH > 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
