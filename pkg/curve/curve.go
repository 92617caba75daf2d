// Package curve implements parametric tessellation: Bezier curves via de
// Casteljau evaluation and degree elevation, B-splines via de Boor
// evaluation and knot insertion, triangular Bezier patches (including
// PN-triangle construction from three vertex/normal pairs), and
// tensor-product Bezier surfaces.
package curve

import (
	"math"

	"github.com/go3d/raster3d/pkg/vmath"
)

// ControlPoint is one control vertex carried through curve and surface
// evaluation: a position and an associated color, both interpolated
// linearly in lockstep.
type ControlPoint struct {
	Position vmath.Vec3
	Color    vmath.Vec4
}

func lerpControlPoint(a, b ControlPoint, t float64) ControlPoint {
	return ControlPoint{
		Position: a.Position.Lerp(b.Position, t),
		Color:    a.Color.Lerp(b.Color, t),
	}
}

// Curve is a Bezier curve defined by its control points.
type Curve struct {
	ControlPoints []ControlPoint
}

// NewCurve returns a Bezier curve over the given control points.
func NewCurve(controlPoints []ControlPoint) Curve {
	return Curve{ControlPoints: append([]ControlPoint(nil), controlPoints...)}
}

// Evaluate returns the curve point at parameter t via recursive de
// Casteljau interpolation.
func (c Curve) Evaluate(t float64) ControlPoint {
	return evaluateDeCasteljau(c.ControlPoints, t)
}

func evaluateDeCasteljau(points []ControlPoint, t float64) ControlPoint {
	if len(points) == 1 {
		return points[0]
	}
	next := make([]ControlPoint, len(points)-1)
	for i := range next {
		next[i] = lerpControlPoint(points[i], points[i+1], t)
	}
	return evaluateDeCasteljau(next, t)
}

// ElevateDegree raises the curve's degree by the given number of steps
// without changing its shape, each step replacing n control points with
// n+1.
func (c Curve) ElevateDegree(steps int) Curve {
	temp := append([]ControlPoint(nil), c.ControlPoints...)
	for s := 0; s < steps; s++ {
		n := len(temp)
		elevated := make([]ControlPoint, 0, n+1)
		elevated = append(elevated, temp[0])
		for i := 1; i < n; i++ {
			ratio := float64(i) / float64(n)
			elevated = append(elevated, lerpControlPoint(temp[i], temp[i-1], ratio))
		}
		elevated = append(elevated, temp[n-1])
		temp = elevated
	}
	return Curve{ControlPoints: temp}
}

// BSpline is a non-uniform B-spline curve over a knot vector.
type BSpline struct {
	ControlPoints []ControlPoint
	Knots         []float64
	n, order      int
}

// NewBSpline builds a B-spline from control points and a knot vector.
// Order is derived as len(knots) - n - 1, where n = len(controlPoints)-1.
func NewBSpline(controlPoints []ControlPoint, knots []float64) BSpline {
	n := len(controlPoints) - 1
	return BSpline{
		ControlPoints: append([]ControlPoint(nil), controlPoints...),
		Knots:         append([]float64(nil), knots...),
		n:             n,
		order:         len(knots) - n - 1,
	}
}

// InsertKnot inserts value into the knot vector, refining the control
// polygon via the Boehm knot-insertion formula so the curve's shape is
// unchanged.
func (b BSpline) InsertKnot(value float64) BSpline {
	index := len(b.Knots) - 1
	found := false
	for i, k := range b.Knots {
		if value < k {
			index = i - 1
			found = true
			break
		}
	}

	n := b.n + 1
	newPoints := make([]ControlPoint, n+1)
	for i := 0; i <= index-b.order+1; i++ {
		newPoints[i] = b.ControlPoints[i]
	}
	for i := index - b.order + 2; i <= index; i++ {
		basis := b.basisFactor(i, 1, value)
		newPoints[i] = lerpControlPoint(b.ControlPoints[i-1], b.ControlPoints[i], basis)
	}
	for i := index + 1; i <= n; i++ {
		newPoints[i] = b.ControlPoints[i-1]
	}

	var newKnots []float64
	if found {
		newKnots = make([]float64, 0, len(b.Knots)+1)
		newKnots = append(newKnots, b.Knots[:index+1]...)
		newKnots = append(newKnots, value)
		newKnots = append(newKnots, b.Knots[index+1:]...)
	} else {
		newKnots = append(append([]float64(nil), b.Knots...), value)
	}

	return BSpline{ControlPoints: newPoints, Knots: newKnots, n: n, order: b.order}
}

// Evaluate returns the curve point at parameter t via de Boor's algorithm.
func (b BSpline) Evaluate(t float64) ControlPoint {
	j := upperBound(b.Knots, t) - 1
	start := j + 1 - b.order
	points := append([]ControlPoint(nil), b.ControlPoints[start:j+1]...)
	return b.evaluateDeBoor(points, t, start)
}

func (b BSpline) evaluateDeBoor(points []ControlPoint, t float64, index int) ControlPoint {
	if len(points) == 1 {
		return points[0]
	}
	r := b.order - len(points) + 1
	index++

	next := make([]ControlPoint, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		basis := b.basisFactor(index+i, r, t)
		next[i] = lerpControlPoint(points[i], points[i+1], basis)
	}
	return b.evaluateDeBoor(next, t, index)
}

// basisFactor computes the de Boor blending ratio for knot span i at
// recursion depth r; a near-zero knot span (below 1e-6) contributes 0 so
// coincident knots don't divide by zero.
func (b BSpline) basisFactor(i, r int, t float64) float64 {
	span := b.Knots[i+b.order-r] - b.Knots[i]
	if span <= 1e-6 {
		return 0
	}
	return (t - b.Knots[i]) / span
}

// upperBound returns the index of the first element of knots strictly
// greater than t (mirroring std::upper_bound on a sorted range).
func upperBound(knots []float64, t float64) int {
	for i, k := range knots {
		if k > t {
			return i
		}
	}
	return len(knots)
}

func factorial(n int) float64 {
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r
}

// TrianglePatch is a triangular Bezier patch: a jagged control-point grid
// indexed by barycentric degree (row i has degree-i+1 columns).
type TrianglePatch struct {
	Points [][]ControlPoint
	Degree int
}

// NewPNTrianglePatch builds the cubic (degree-3) PN-triangle patch implied
// by three corner vertices and their normals, curving each edge to match
// the vertices' tangent planes and placing a center point from their
// average.
func NewPNTrianglePatch(vertices [3]ControlPoint, normals [3]vmath.Vec3) TrianglePatch {
	// edgePoint takes the raw 1/3 or 2/3 chord point and pulls it back onto
	// the tangent plane of whichever endpoint it sits closer to, bending
	// the edge toward that vertex's normal.
	edgePoint := func(ratio float64, anchor ControlPoint, normal vmath.Vec3, a, b ControlPoint) ControlPoint {
		p := lerpControlPoint(a, b, ratio)
		distance := p.Position.Sub(anchor.Position).Dot(normal)
		p.Position = p.Position.Sub(normal.Scale(distance))
		return p
	}

	var edge [6]ControlPoint
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		edge[2*i] = edgePoint(1.0/3.0, vertices[i], normals[i], vertices[i], vertices[j])
		edge[2*i+1] = edgePoint(2.0/3.0, vertices[j], normals[j], vertices[i], vertices[j])
	}

	var center ControlPoint
	for _, p := range edge {
		center.Position = center.Position.Add(p.Position.Scale(1.0 / 6.0))
	}
	for _, v := range vertices {
		center.Position = center.Position.Add(v.Position.Scale(1.0 / 3.0))
		center.Color = center.Color.Add(v.Color.Scale(1.0 / 3.0))
	}
	center.Position = center.Position.Scale(0.5)

	return TrianglePatch{
		Degree: 3,
		Points: [][]ControlPoint{
			{vertices[2], edge[3], edge[2], vertices[1]},
			{edge[4], center, edge[1]},
			{edge[5], edge[0]},
			{vertices[0]},
		},
	}
}

// NewGridTrianglePatch builds a degree-tess triangular patch whose control
// points sit on a wavy barycentric grid over three base vertices, each
// lofted by a sin^10 height ripple — a procedural stand-in for a designed
// triangular surface patch.
func NewGridTrianglePatch(vertices [3]ControlPoint, tess int) TrianglePatch {
	points := make([][]ControlPoint, tess+1)
	for i := tess; i >= 0; i-- {
		height := 3.0 * math.Pow(math.Sin(float64(i)/math.Pi), 10)
		points[i] = make([]ControlPoint, tess-i+1)
		for j := tess - i; j >= 0; j-- {
			k := tess - i - j
			fi, fj, fk := float64(i)/float64(tess), float64(j)/float64(tess), float64(k)/float64(tess)
			cp := ControlPoint{
				Position: vertices[0].Position.Scale(fi).Add(vertices[1].Position.Scale(fj)).Add(vertices[2].Position.Scale(fk)),
				Color:    vertices[0].Color.Scale(fi).Add(vertices[1].Color.Scale(fj)).Add(vertices[2].Color.Scale(fk)),
			}
			cp.Position.Y += height
			points[i][j] = cp
		}
	}
	return TrianglePatch{Degree: tess, Points: points}
}

// Evaluate returns the patch point at barycentric coordinates (u, v, w),
// u+v+w == 1, via the closed-form Bernstein-Bezier triangle formula.
func (p TrianglePatch) Evaluate(u, v, w float64) ControlPoint {
	n := p.Degree
	var point ControlPoint
	for i := n; i >= 0; i-- {
		for j := n - i; j >= 0; j-- {
			k := n - i - j
			bernstein := factorial(n) / (factorial(i) * factorial(j) * factorial(k)) *
				math.Pow(u, float64(i)) * math.Pow(v, float64(j)) * math.Pow(w, float64(k))
			point.Position = point.Position.Add(p.Points[i][j].Position.Scale(bernstein))
			point.Color = point.Color.Add(p.Points[i][j].Color.Scale(bernstein))
		}
	}
	return point
}

// EvaluateRecursive returns the patch point at barycentric coordinates
// (u, v, w) via repeated trilinear blending of the control grid, the
// triangular analogue of de Casteljau's algorithm.
func (p TrianglePatch) EvaluateRecursive(u, v, w float64) ControlPoint {
	return evaluateTriangleRecursive(p.Points, u, v, w)
}

func evaluateTriangleRecursive(points [][]ControlPoint, u, v, w float64) ControlPoint {
	n := len(points) - 1
	if n == 0 {
		return points[0][0]
	}
	next := make([][]ControlPoint, n)
	n--
	for i := n; i >= 0; i-- {
		next[i] = make([]ControlPoint, n-i+1)
		for j := n - i; j >= 0; j-- {
			pos := points[i+1][j].Position.Scale(u).
				Add(points[i][j+1].Position.Scale(v)).
				Add(points[i][j].Position.Scale(w))
			col := points[i+1][j].Color.Scale(u).
				Add(points[i][j+1].Color.Scale(v)).
				Add(points[i][j].Color.Scale(w))
			next[i][j] = ControlPoint{Position: pos, Color: col}
		}
	}
	return evaluateTriangleRecursive(next, u, v, w)
}

// Surface is a tensor-product Bezier surface: one Bezier curve of control
// points per row, evaluated across rows (u) and then along the resulting
// curve (v).
type Surface struct {
	Curves []Curve
}

// NewGridBezierSurface builds a procedural rippled grid surface of the
// given size, tessellated tessX by tessY, with a sin^10 height wave along
// each row curve (the u axis of Evaluate) — a stand-in for a designed
// control-point grid.
func NewGridBezierSurface(size vmath.Vec2, tessX, tessY int) Surface {
	curves := make([]Curve, 0, tessX+1)
	horizontal := size.X / float64(tessX)
	vertical := size.Y / float64(tessY)
	for i := 0; i <= tessX; i++ {
		x := -size.X/2 + horizontal*float64(i)
		points := make([]ControlPoint, 0, tessY+1)
		for j := 0; j <= tessY; j++ {
			y := -size.Y/2 + vertical*float64(j)
			height := math.Pow(math.Sin(float64(j)/math.Pi), 10)
			points = append(points, ControlPoint{
				Position: vmath.Vec3{X: x, Y: y, Z: height},
				Color:    vmath.Vec4{X: 1, Y: 0, Z: 0, W: 1},
			})
		}
		curves = append(curves, NewCurve(points))
	}
	return Surface{Curves: curves}
}

// SurfaceCurve collapses the surface's rows at parameter t into a single
// Bezier curve along the remaining axis.
func (s Surface) SurfaceCurve(t float64) Curve {
	points := make([]ControlPoint, len(s.Curves))
	for i, c := range s.Curves {
		points[i] = c.Evaluate(t)
	}
	return NewCurve(points)
}

// Evaluate returns the surface point at parametric coordinates (u, v).
func (s Surface) Evaluate(u, v float64) ControlPoint {
	return s.SurfaceCurve(u).Evaluate(v)
}
