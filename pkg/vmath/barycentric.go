package vmath

import "math"

// Barycentric computes the barycentric weights (w0, w1, w2) of point p
// against the 2D triangle (x0,y0)-(x1,y1)-(x2,y2), such that
// p == w0*v0 + w1*v1 + w2*v2 and w0+w1+w2 == 1.
//
// If the absolute cross product of its edges (twice the triangle's area)
// is below one pixel unit (a degenerate or
// near-degenerate triangle), this returns the sentinel (-1, 1, 1) rather
// than dividing by a near-zero area; callers must treat any weight vector
// with a negative first component as "outside/degenerate".
func Barycentric(x0, y0, x1, y1, x2, y2, px, py float64) (w0, w1, w2 float64) {
	abx, aby := x1-x0, y1-y0
	acx, acy := x2-x0, y2-y0
	apx, apy := px-x0, py-y0

	area := abx*acy - aby*acx
	if math.Abs(area) < 1.0 {
		return -1, 1, 1
	}

	u := (apx*acy - apy*acx) / area
	v := (abx*apy - aby*apx) / area
	return 1 - u - v, u, v
}

// PerspectiveCorrectInterpolateFloat interpolates a scalar attribute across
// a triangle given barycentric weights (w0,w1,w2), the attribute values at
// each vertex, and each vertex's view-space (pre-divide) depth z0,z1,z2.
//
// zt = 1 / (w0/z0 + w1/z1 + w2/z2); attr = zt * (w0*a0/z0 + w1*a1/z1 + w2*a2/z2)
func PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0, a1, a2 float64) float64 {
	invZ := w0/z0 + w1/z1 + w2/z2
	if invZ == 0 {
		return 0
	}
	zt := 1 / invZ
	return zt * (w0*a0/z0 + w1*a1/z1 + w2*a2/z2)
}

// PerspectiveCorrectInterpolateVec2 is the Vec2 form of
// PerspectiveCorrectInterpolateFloat, applied component-wise.
func PerspectiveCorrectInterpolateVec2(w0, w1, w2, z0, z1, z2 float64, a0, a1, a2 Vec2) Vec2 {
	return Vec2{
		X: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.X, a1.X, a2.X),
		Y: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.Y, a1.Y, a2.Y),
	}
}

// PerspectiveCorrectInterpolateVec3 is the Vec3 form of
// PerspectiveCorrectInterpolateFloat, applied component-wise.
func PerspectiveCorrectInterpolateVec3(w0, w1, w2, z0, z1, z2 float64, a0, a1, a2 Vec3) Vec3 {
	return Vec3{
		X: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.X, a1.X, a2.X),
		Y: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.Y, a1.Y, a2.Y),
		Z: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.Z, a1.Z, a2.Z),
	}
}

// PerspectiveCorrectInterpolateVec4 is the Vec4 form of
// PerspectiveCorrectInterpolateFloat, applied component-wise.
func PerspectiveCorrectInterpolateVec4(w0, w1, w2, z0, z1, z2 float64, a0, a1, a2 Vec4) Vec4 {
	return Vec4{
		X: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.X, a1.X, a2.X),
		Y: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.Y, a1.Y, a2.Y),
		Z: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.Z, a1.Z, a2.Z),
		W: PerspectiveCorrectInterpolateFloat(w0, w1, w2, z0, z1, z2, a0.W, a1.W, a2.W),
	}
}
