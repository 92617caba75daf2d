package vmath

import "math"

// Mat4 is a 4x4 row-major matrix. Vectors are row vectors: a transform is
// applied as v' = v * M, and two transforms compose as Multiply(a, b) where
// a is applied first and b second — v*(a*b) == (v*a)*b. This matches how
// the rest of the pipeline chains transforms: Multiply(world, Multiply(view,
// proj)) carries a point from object space to clip space in that order.
type Mat4 struct {
	m [4][4]float64
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	var r Mat4
	r.m[0][0], r.m[1][1], r.m[2][2], r.m[3][3] = 1, 1, 1, 1
	return r
}

// At returns the element at row i, column j.
func (a Mat4) At(i, j int) float64 { return a.m[i][j] }

// Set returns a copy of a with element (i, j) replaced by v.
func (a Mat4) Set(i, j int, v float64) Mat4 {
	a.m[i][j] = v
	return a
}

// Add returns the element-wise sum a + b. Used to accumulate quadric error
// matrices, which are not transforms and so are summed rather than
// composed.
func (a Mat4) Add(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.m[i][j] = a.m[i][j] + b.m[i][j]
		}
	}
	return r
}

// Translate returns a translation matrix by v.
func Translate(v Vec3) Mat4 {
	r := Identity4()
	r.m[3][0], r.m[3][1], r.m[3][2] = v.X, v.Y, v.Z
	return r
}

// Scale returns a non-uniform scaling matrix.
func Scale(v Vec3) Mat4 {
	var r Mat4
	r.m[0][0], r.m[1][1], r.m[2][2], r.m[3][3] = v.X, v.Y, v.Z, 1
	return r
}

// ScaleUniform returns a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(Vec3{s, s, s})
}

// RotateX returns a rotation matrix of angle radians about the X axis.
func RotateX(angle float64) Mat4 {
	s, c := math.Sin(angle), math.Cos(angle)
	r := Identity4()
	r.m[1][1], r.m[1][2] = c, s
	r.m[2][1], r.m[2][2] = -s, c
	return r
}

// RotateY returns a rotation matrix of angle radians about the Y axis.
func RotateY(angle float64) Mat4 {
	s, c := math.Sin(angle), math.Cos(angle)
	r := Identity4()
	r.m[0][0], r.m[0][2] = c, -s
	r.m[2][0], r.m[2][2] = s, c
	return r
}

// RotateZ returns a rotation matrix of angle radians about the Z axis.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sin(angle), math.Cos(angle)
	r := Identity4()
	r.m[0][0], r.m[0][1] = c, s
	r.m[1][0], r.m[1][1] = -s, c
	return r
}

// RotateAxis returns a rotation matrix of angle radians about an arbitrary
// axis, via the Rodrigues formula. The caller must pass a normalized axis;
// a non-unit axis does not produce a pure rotation.
func RotateAxis(axis Vec3, angle float64) Mat4 {
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	r := Identity4()
	r.m[0][0] = t*x*x + c
	r.m[0][1] = t*x*y + s*z
	r.m[0][2] = t*x*z - s*y
	r.m[1][0] = t*x*y - s*z
	r.m[1][1] = t*y*y + c
	r.m[1][2] = t*y*z + s*x
	r.m[2][0] = t*x*z + s*y
	r.m[2][1] = t*y*z - s*x
	r.m[2][2] = t*z*z + c
	return r
}

// LookAt builds a right-handed view matrix from eye position, look target
// and up direction.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	r := Identity4()
	r.m[0][0], r.m[1][0], r.m[2][0] = s.X, s.Y, s.Z
	r.m[0][1], r.m[1][1], r.m[2][1] = u.X, u.Y, u.Z
	r.m[0][2], r.m[1][2], r.m[2][2] = -f.X, -f.Y, -f.Z
	r.m[3][0] = -s.Dot(eye)
	r.m[3][1] = -u.Dot(eye)
	r.m[3][2] = f.Dot(eye)
	return r
}

// Orthographic builds an orthographic projection matrix over the box
// [l,r] x [b,t] x [n,f] via a translate-then-scale construction: first
// center the box at the origin, then scale each axis to the [-1,1] clip
// range.
func Orthographic(l, r, b, t, n, f float64) Mat4 {
	translate := Translate(Vec3{-(l + r) / 2, -(t + b) / 2, -(n + f) / 2})
	scale := Scale(Vec3{2 / (r - l), 2 / (t - b), 2 / (n - f)})
	return translate.Multiply(scale)
}

// Perspective builds a perspective projection matrix over the frustum
// [l,r] x [b,t] at the near plane, extending to the far plane f, by first
// warping the frustum into the orthographic box via a perspective-to-
// orthographic matrix and then applying Orthographic.
func Perspective(l, r, b, t, n, f float64) Mat4 {
	var perspToOrtho Mat4
	perspToOrtho.m[0][0] = n
	perspToOrtho.m[1][1] = n
	perspToOrtho.m[2][2] = n + f
	perspToOrtho.m[2][3] = 1
	perspToOrtho.m[3][2] = -n * f
	return perspToOrtho.Multiply(Orthographic(l, r, b, t, n, f))
}

// PerspectiveFOV builds a perspective projection from a vertical field of
// view (radians), aspect ratio (width/height) and near/far distances —
// a convenience wrapper over Perspective for the common symmetric case.
// It is for a view space looking down -Z, as LookAt builds: view z is
// negated before Perspective, so w is the positive view depth, and the
// resulting z is negated, so the near plane maps to -1 and the far plane
// to +1.
func PerspectiveFOV(fovY, aspect, n, f float64) Mat4 {
	top := n * math.Tan(fovY/2)
	right := top * aspect
	flipZ := Scale(Vec3{1, 1, -1})
	return flipZ.Multiply(Perspective(-right, right, -top, top, n, f)).Multiply(flipZ)
}

// MulVec4 transforms v by a as a row vector: v * a.
func (a Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*a.m[0][0] + v.Y*a.m[1][0] + v.Z*a.m[2][0] + v.W*a.m[3][0],
		v.X*a.m[0][1] + v.Y*a.m[1][1] + v.Z*a.m[2][1] + v.W*a.m[3][1],
		v.X*a.m[0][2] + v.Y*a.m[1][2] + v.Z*a.m[2][2] + v.W*a.m[3][2],
		v.X*a.m[0][3] + v.Y*a.m[1][3] + v.Z*a.m[2][3] + v.W*a.m[3][3],
	}
}

// MulVec3 transforms a point (implicit w=1) by a and returns the result with
// w dropped, without perspective divide.
func (a Mat4) MulVec3(v Vec3) Vec3 {
	return a.MulVec4(v.V4(1)).Vec3()
}

// MulVec3Dir transforms a direction (implicit w=0) by a, ignoring
// translation.
func (a Mat4) MulVec3Dir(v Vec3) Vec3 {
	return a.MulVec4(v.V4(0)).Vec3()
}

// Multiply returns a * b (a applied first, then b): for row vectors,
// v*(a*b) == (v*a)*b.
func (a Mat4) Multiply(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a.m[i][k] * b.m[k][j]
			}
			r.m[i][j] = s
		}
	}
	return r
}

// Transpose returns the transpose of a.
func (a Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.m[j][i] = a.m[i][j]
		}
	}
	return r
}

// minor returns the 3x3 matrix formed by deleting row i and column j.
func (a Mat4) minor(i, j int) Mat3 {
	var r Mat3
	ri := 0
	for row := 0; row < 4; row++ {
		if row == i {
			continue
		}
		rj := 0
		for col := 0; col < 4; col++ {
			if col == j {
				continue
			}
			r.m[ri][rj] = a.m[row][col]
			rj++
		}
		ri++
	}
	return r
}

// Determinant returns the determinant of a, via cofactor expansion along
// the first row.
func (a Mat4) Determinant() float64 {
	return a.m[0][0]*a.minor(0, 0).Determinant() -
		a.m[0][1]*a.minor(0, 1).Determinant() +
		a.m[0][2]*a.minor(0, 2).Determinant() -
		a.m[0][3]*a.minor(0, 3).Determinant()
}

// Inverse returns the inverse of a via the adjugate/determinant method. If a
// is singular (determinant 0) it returns the identity matrix; callers that
// need to detect singularity should check Determinant first.
func (a Mat4) Inverse() Mat4 {
	det := a.Determinant()
	if det == 0 {
		return Identity4()
	}
	inv := 1 / det
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			cofactor := a.minor(i, j).Determinant()
			if (i+j)%2 != 0 {
				cofactor = -cofactor
			}
			// Adjugate is the transpose of the cofactor matrix.
			r.m[j][i] = cofactor * inv
		}
	}
	return r
}
