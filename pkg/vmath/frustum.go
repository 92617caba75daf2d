package vmath

// Plane is a plane in 3D space: Ax + By + Cz + D = 0, where (A,B,C) is the
// normal and D is the signed offset from the origin along it.
type Plane struct {
	Normal Vec3
	D      float64
}

// normalized returns p scaled so Normal has unit length, leaving a
// zero-length normal unchanged.
func (p Plane) normalized() Plane {
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), D: p.D / l}
}

// DistanceToPoint returns the signed distance from the plane to a point:
// positive on the side the normal points to, negative on the other.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six bounding planes of a view volume, normals pointing
// inward, in Left/Right/Bottom/Top/Near/Far order.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// column reads column j of m as a homogeneous plane-coefficient vector:
// under this module's row-vector convention (v' = v*m), column j of m is
// what a row vector dots against to produce output component j, so the
// classic Gribb/Hartmann row-extraction is this package's
// column-extraction instead.
func column(m Mat4, j int) Vec4 {
	return Vec4{m.At(0, j), m.At(1, j), m.At(2, j), m.At(3, j)}
}

// FrustumFromMatrix extracts the six frustum planes of a combined
// view-projection matrix via the Gribb/Hartmann method, adapted to this
// module's row-vector convention (see column). Assumes an OpenGL-style NDC
// z range of [-1,1], matching Orthographic/Perspective in mat4.go.
func FrustumFromMatrix(m Mat4) Frustum {
	c0, c1, c2, c3 := column(m, 0), column(m, 1), column(m, 2), column(m, 3)

	plane := func(a, b Vec4, sign float64) Plane {
		v := a.Add(b.Scale(sign))
		return Plane{Normal: Vec3{v.X, v.Y, v.Z}, D: v.W}.normalized()
	}

	var f Frustum
	f.Planes[FrustumLeft] = plane(c3, c0, 1)
	f.Planes[FrustumRight] = plane(c3, c0, -1)
	f.Planes[FrustumBottom] = plane(c3, c1, 1)
	f.Planes[FrustumTop] = plane(c3, c1, -1)
	f.Planes[FrustumNear] = plane(c3, c2, 1)
	f.Planes[FrustumFar] = plane(c3, c2, -1)
	return f
}

// ContainsPoint reports whether p is on the inward side of every plane.
func (f Frustum) ContainsPoint(p Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere at center with the given radius
// touches or enters the frustum.
func (f Frustum) IntersectsSphere(center Vec3, radius float64) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// IntersectsAABB reports whether any part of box is inside the frustum,
// via the positive-vertex test: for each plane, the box corner furthest
// along the plane's normal is the one most likely to be inside, so if even
// that corner fails the plane test, the whole box is outside it.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, pl := range f.Planes {
		p := Vec3{
			selectComponent(pl.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(pl.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(pl.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		}
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Size returns the box's dimensions.
func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

// Transform returns the AABB bounding all 8 corners of b after applying m as
// a point transform (implicit w=1).
func (b AABB) Transform(m Mat4) AABB {
	corners := [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
	newMin := m.MulVec3(corners[0])
	newMax := newMin
	for _, c := range corners[1:] {
		t := m.MulVec3(c)
		newMin = newMin.Min(t)
		newMax = newMax.Max(t)
	}
	return AABB{Min: newMin, Max: newMax}
}

// BoundsOf returns the AABB enclosing every point in points. Points must be
// non-empty.
func BoundsOf(points []Vec3) AABB {
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}
