package vmath

import "math"

// Vec4 represents a 4D vector: a homogeneous point, or an RGBA color.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Vec3 drops the W component.
func (a Vec4) Vec3() Vec3 {
	return Vec3{a.X, a.Y, a.Z}
}

// PerspectiveDivide divides X, Y, Z by W. If W is zero the vector is
// returned unchanged (caller-contract violation; no crash).
func (a Vec4) PerspectiveDivide() Vec4 {
	if a.W == 0 {
		return a
	}
	return Vec4{a.X / a.W, a.Y / a.W, a.Z / a.W, 1}
}

// Add returns the vector sum a + b.
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference a - b.
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Mul returns the component-wise product a * b.
func (a Vec4) Mul(b Vec4) Vec4 {
	return Vec4{a.X * b.X, a.Y * b.Y, a.Z * b.Z, a.W * b.W}
}

// Scale returns the scalar product a * s.
func (a Vec4) Scale(s float64) Vec4 {
	return Vec4{a.X * s, a.Y * s, a.Z * s, a.W * s}
}

// Dot returns the dot product a . b.
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the length (magnitude) of the vector.
func (a Vec4) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// Saturate clamps each component to [0,1].
func (a Vec4) Saturate() Vec4 {
	return Vec4{saturate1(a.X), saturate1(a.Y), saturate1(a.Z), saturate1(a.W)}
}
