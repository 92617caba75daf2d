package pipeline

import (
	"math"

	"github.com/go3d/raster3d/pkg/shader"
	"github.com/go3d/raster3d/pkg/vmath"
)

// drawTriangle rasterizes one triangle: backface cull, bounding box clip to
// the viewport, per-sample barycentric coverage against the fixed MSAA
// table, perspective-correct attribute interpolation, depth test and
// single-shade-per-pixel caching.
func (p *Pipeline) drawTriangle(v0, v1, v2 Vertex) {
	cv0, ok0 := p.transform(v0)
	cv1, ok1 := p.transform(v1)
	cv2, ok2 := p.transform(v2)
	if !ok0 || !ok1 || !ok2 {
		return
	}
	if cv0.viewZ <= 0 && cv1.viewZ <= 0 && cv2.viewZ <= 0 {
		// Entirely behind the camera; this renderer does not clip to the
		// near plane, so skip rather than rasterize a reflected triangle.
		return
	}

	if p.CullBackfaces && isBackfacing(cv0, cv1, cv2) {
		return
	}

	minX := int(math.Floor(min3(cv0.screenX, cv1.screenX, cv2.screenX)))
	maxX := int(math.Ceil(max3(cv0.screenX, cv1.screenX, cv2.screenX)))
	minY := int(math.Floor(min3(cv0.screenY, cv1.screenY, cv2.screenY)))
	maxY := int(math.Ceil(max3(cv0.screenY, cv1.screenY, cv2.screenY)))

	minX = maxInt(minX, 0)
	minY = maxInt(minY, 0)
	maxX = minInt(maxX, p.FB.Width-1)
	maxY = minInt(maxY, p.FB.Height-1)

	offsets := SampleOffsets(p.FB.Samples)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p.rasterizePixel(x, y, offsets, cv0, cv1, cv2)
		}
	}
}

// isBackfacing reports whether the screen-projected triangle winds
// counter-clockwise as seen on the Y-down screen, or is degenerate:
// (v1-v0)x(v2-v0).z <= 0.
func isBackfacing(v0, v1, v2 clipVertex) bool {
	ax, ay := v1.screenX-v0.screenX, v1.screenY-v0.screenY
	bx, by := v2.screenX-v0.screenX, v2.screenY-v0.screenY
	return ax*by-ay*bx <= 0
}

func (p *Pipeline) rasterizePixel(x, y int, offsets []SampleOffset, cv0, cv1, cv2 clipVertex) {
	var shaded Color
	haveShaded := false

	for s, off := range offsets {
		px := float64(x) + off.DX
		py := float64(y) + off.DY

		w0, w1, w2 := vmath.Barycentric(cv0.screenX, cv0.screenY, cv1.screenX, cv1.screenY, cv2.screenX, cv2.screenY, px, py)
		if w0 < -1e-5 || w1 < -1e-5 || w2 < -1e-5 {
			continue
		}

		depth := w0*cv0.screenZ + w1*cv1.screenZ + w2*cv2.screenZ
		if depth > p.FB.depthAt(s, x, y) {
			continue
		}

		if !haveShaded {
			frag := interpolateFragment(w0, w1, w2, cv0, cv1, cv2)
			shaded = p.shade(frag)
			haveShaded = true
		}
		p.FB.setSample(s, x, y, shaded, depth)
	}
}

// interpolateFragment perspective-correctly interpolates a FragmentInput
// across a triangle given barycentric weights and each vertex's pre-divide
// view-space depth.
func interpolateFragment(w0, w1, w2 float64, cv0, cv1, cv2 clipVertex) shader.FragmentInput {
	z0, z1, z2 := cv0.viewZ, cv1.viewZ, cv2.viewZ
	return shader.FragmentInput{
		WorldPos: vmath.PerspectiveCorrectInterpolateVec3(w0, w1, w2, z0, z1, z2, cv0.frag.WorldPos, cv1.frag.WorldPos, cv2.frag.WorldPos),
		Normal:   vmath.PerspectiveCorrectInterpolateVec3(w0, w1, w2, z0, z1, z2, cv0.frag.Normal, cv1.frag.Normal, cv2.frag.Normal),
		Texcoord: vmath.PerspectiveCorrectInterpolateVec2(w0, w1, w2, z0, z1, z2, cv0.frag.Texcoord, cv1.frag.Texcoord, cv2.frag.Texcoord),
		Color:    vmath.PerspectiveCorrectInterpolateVec4(w0, w1, w2, z0, z1, z2, cv0.frag.Color, cv1.frag.Color, cv2.frag.Color),
	}
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
