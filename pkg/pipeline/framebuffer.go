package pipeline

import "fmt"

// SampleOffset is one sub-pixel sample position, expressed as an (dx, dy)
// offset in pixel units from the pixel center.
type SampleOffset struct {
	DX, DY float64
}

// sampleTables holds the fixed MSAA sample-position tables for each
// supported sample count. Coverage ordering is fixed and deliberate: which
// covered sample's barycentric gets used for single-shading depends on it.
var sampleTables = map[int][]SampleOffset{
	1: {
		{0, 0},
	},
	2: {
		{-0.25, -0.25},
		{0.25, 0.25},
	},
	4: {
		{-2.0 / 16, -6.0 / 16},
		{6.0 / 16, -2.0 / 16},
		{-6.0 / 16, 2.0 / 16},
		{2.0 / 16, 6.0 / 16},
	},
	8: {
		{-7.0 / 16, -1.0 / 16},
		{-3.0 / 16, -5.0 / 16},
		{1.0 / 16, -3.0 / 16},
		{7.0 / 16, -7.0 / 16},
		{-5.0 / 16, 5.0 / 16},
		{-1.0 / 16, 3.0 / 16},
		{3.0 / 16, 7.0 / 16},
		{5.0 / 16, 1.0 / 16},
	},
	16: {
		{-7.0 / 16, -0.5},
		{-5.0 / 16, -2.0 / 16},
		{-4.0 / 16, -6.0 / 16},
		{-1.0 / 16, -3.0 / 16},
		{0, -7.0 / 16},
		{3.0 / 16, -5.0 / 16},
		{4.0 / 16, -1.0 / 16},
		{7.0 / 16, -4.0 / 16},
		{-0.5, 0},
		{-6.0 / 16, 4.0 / 16},
		{-3.0 / 16, 2.0 / 16},
		{-2.0 / 16, 6.0 / 16},
		{1.0 / 16, 1.0 / 16},
		{2.0 / 16, 5.0 / 16},
		{5.0 / 16, 3.0 / 16},
		{6.0 / 16, 7.0 / 16},
	},
}

// SampleOffsets returns the sample-position table for sampleCount, in
// source order. It panics for a sample count this module does not support —
// a caller-contract violation caught at Pipeline construction time.
func SampleOffsets(sampleCount int) []SampleOffset {
	t, ok := sampleTables[sampleCount]
	if !ok {
		panic(fmt.Sprintf("pipeline: unsupported sample count %d", sampleCount))
	}
	return t
}

// Color is an RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// Framebuffer owns the color and depth planes for one pipeline. Each plane
// is W*H*S, indexed as sample*W*H + y*W + x, where S is the sample count.
type Framebuffer struct {
	Width, Height int
	Samples       int
	Color         []Color
	Depth         []float64
}

// NewFramebuffer allocates a framebuffer of the given dimensions and sample
// count. sampleCount must be one of {1,2,4,8,16}.
func NewFramebuffer(width, height, sampleCount int) *Framebuffer {
	SampleOffsets(sampleCount) // validate early
	n := width * height * sampleCount
	return &Framebuffer{
		Width:   width,
		Height:  height,
		Samples: sampleCount,
		Color:   make([]Color, n),
		Depth:   make([]float64, n),
	}
}

func (fb *Framebuffer) index(sample, x, y int) int {
	return sample*fb.Width*fb.Height + y*fb.Width + x
}

// Clear fills the color plane with c and the depth plane with depth across
// every sample slot.
func (fb *Framebuffer) Clear(c Color, depth float64) {
	for i := range fb.Color {
		fb.Color[i] = c
		fb.Depth[i] = depth
	}
}

// ReadFramebuffer resolves the pixel at (x, y) by averaging RGB across all
// sample slots; alpha is not part of the resolved output.
func (fb *Framebuffer) ReadFramebuffer(x, y int) (r, g, b float64) {
	for s := 0; s < fb.Samples; s++ {
		c := fb.Color[fb.index(s, x, y)]
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(fb.Samples)
	return r / n, g / n, b / n
}

// depthAt returns the depth stored at sample slot (sample, x, y).
func (fb *Framebuffer) depthAt(sample, x, y int) float64 {
	return fb.Depth[fb.index(sample, x, y)]
}

// setSample writes color and depth to sample slot (sample, x, y).
func (fb *Framebuffer) setSample(sample, x, y int, c Color, depth float64) {
	i := fb.index(sample, x, y)
	fb.Color[i] = blendSourceOver(fb.Color[i], c)
	fb.Depth[i] = depth
}

// blendSourceOver composites src over dst per the pipeline's fixed blend
// mode: dst.rgb = src.rgb*src.a + dst.rgb*(1-src.a); dst.a = src.a.
func blendSourceOver(dst, src Color) Color {
	inv := 1 - src.A
	return Color{
		R: src.R*src.A + dst.R*inv,
		G: src.G*src.A + dst.G*inv,
		B: src.B*src.A + dst.B*inv,
		A: src.A,
	}
}
