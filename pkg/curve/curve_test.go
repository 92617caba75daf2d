package curve

import (
	"math"
	"testing"

	"github.com/go3d/raster3d/pkg/vmath"
)

func approxVec3(t *testing.T, got, want vmath.Vec3, tol float64, msg string) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func cp(x, y, z float64) ControlPoint {
	return ControlPoint{Position: vmath.Vec3{X: x, Y: y, Z: z}, Color: vmath.Vec4{X: 1, W: 1}}
}

func TestCurveEvaluateAtEndpoints(t *testing.T) {
	c := NewCurve([]ControlPoint{cp(0, 0, 0), cp(1, 2, 0), cp(2, 0, 0)})

	approxVec3(t, c.Evaluate(0).Position, vmath.Vec3{X: 0, Y: 0, Z: 0}, 1e-9, "t=0")
	approxVec3(t, c.Evaluate(1).Position, vmath.Vec3{X: 2, Y: 0, Z: 0}, 1e-9, "t=1")
}

func TestCurveEvaluateAtMidpointOfLine(t *testing.T) {
	c := NewCurve([]ControlPoint{cp(0, 0, 0), cp(4, 0, 0)})
	approxVec3(t, c.Evaluate(0.5).Position, vmath.Vec3{X: 2, Y: 0, Z: 0}, 1e-9, "midpoint of a straight line")
}

func TestElevateDegreePreservesEndpointsAndShape(t *testing.T) {
	c := NewCurve([]ControlPoint{cp(0, 0, 0), cp(1, 2, 0), cp(2, 0, 0)})
	elevated := c.ElevateDegree(1)

	if len(elevated.ControlPoints) != 4 {
		t.Fatalf("elevated control point count = %d, want 4", len(elevated.ControlPoints))
	}
	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
		approxVec3(t, elevated.Evaluate(tt).Position, c.Evaluate(tt).Position, 1e-6, "degree elevation should not change the curve's shape")
	}
}

// clampedKnotsFor builds a clamped uniform knot vector for n+1 control
// points and the given order, matching a plain Bezier curve of degree
// order-1.
func clampedKnotsFor(n, order int) []float64 {
	knots := make([]float64, n+order+1)
	for i := range knots {
		switch {
		case i < order:
			knots[i] = 0
		case i >= n+1:
			knots[i] = 1
		default:
			knots[i] = float64(i-order+1) / float64(n-order+2)
		}
	}
	return knots
}

func TestBSplineMatchesBezierUnderClampedKnots(t *testing.T) {
	points := []ControlPoint{cp(0, 0, 0), cp(1, 2, 0), cp(2, -1, 0), cp(3, 0, 0)}
	order := len(points) // degree 3 Bezier == order 4 B-spline
	knots := clampedKnotsFor(len(points)-1, order)
	b := NewBSpline(points, knots)
	bez := NewCurve(points)

	for _, tt := range []float64{0, 0.3, 0.7} {
		approxVec3(t, b.Evaluate(tt).Position, bez.Evaluate(tt).Position, 1e-6, "clamped B-spline should match the equivalent Bezier curve")
	}
}

func pnVertex(pos vmath.Vec3, normal vmath.Vec3) (ControlPoint, vmath.Vec3) {
	return ControlPoint{Position: pos, Color: vmath.Vec4{W: 1}}, normal.Normalize()
}

func TestPNTrianglePatchReproducesCornersExactly(t *testing.T) {
	v0, n0 := pnVertex(vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	v1, n1 := pnVertex(vmath.Vec3{X: 1, Y: 0, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	v2, n2 := pnVertex(vmath.Vec3{X: 0, Y: 1, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})

	patch := NewPNTrianglePatch([3]ControlPoint{v0, v1, v2}, [3]vmath.Vec3{n0, n1, n2})

	approxVec3(t, patch.Evaluate(1, 0, 0).Position, v0.Position, 1e-9, "u=1 should land exactly on vertex 0")
	approxVec3(t, patch.Evaluate(0, 1, 0).Position, v1.Position, 1e-9, "v=1 should land exactly on vertex 1")
	approxVec3(t, patch.Evaluate(0, 0, 1).Position, v2.Position, 1e-9, "w=1 should land exactly on vertex 2")
}

func TestPNTrianglePatchFlatWhenNormalsCoplanar(t *testing.T) {
	// Three vertices in the z=0 plane, all normals pointing along +Z: the
	// curved patch must collapse back to the flat triangle it started from.
	v0, n0 := pnVertex(vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	v1, n1 := pnVertex(vmath.Vec3{X: 2, Y: 0, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})
	v2, n2 := pnVertex(vmath.Vec3{X: 0, Y: 2, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 1})

	patch := NewPNTrianglePatch([3]ControlPoint{v0, v1, v2}, [3]vmath.Vec3{n0, n1, n2})
	got := patch.Evaluate(1.0/3, 1.0/3, 1.0/3)
	want := vmath.Vec3{X: 2.0 / 3, Y: 2.0 / 3, Z: 0}
	approxVec3(t, got.Position, want, 1e-6, "flat PN-triangle should match its linear centroid")
}

func TestTrianglePatchClosedFormMatchesRecursive(t *testing.T) {
	v0, n0 := pnVertex(vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 0.2, Y: 0.1, Z: 1})
	v1, n1 := pnVertex(vmath.Vec3{X: 1, Y: 0, Z: 0}, vmath.Vec3{X: -0.1, Y: 0.3, Z: 1})
	v2, n2 := pnVertex(vmath.Vec3{X: 0, Y: 1, Z: 0}, vmath.Vec3{X: 0.1, Y: -0.2, Z: 1})

	patch := NewPNTrianglePatch([3]ControlPoint{v0, v1, v2}, [3]vmath.Vec3{n0, n1, n2})

	for _, bary := range [][3]float64{{0.5, 0.25, 0.25}, {0.2, 0.3, 0.5}, {1.0 / 3, 1.0 / 3, 1.0 / 3}} {
		closed := patch.Evaluate(bary[0], bary[1], bary[2])
		recursive := patch.EvaluateRecursive(bary[0], bary[1], bary[2])
		approxVec3(t, closed.Position, recursive.Position, 1e-6, "closed-form and recursive triangle evaluation should agree")
	}
}

func TestGridBezierSurfaceCornersMatchFlatExtent(t *testing.T) {
	s := NewGridBezierSurface(vmath.Vec2{X: 2, Y: 2}, 4, 4)
	corner := s.Evaluate(0, 0).Position
	if math.Abs(corner.X-(-1)) > 1e-9 || math.Abs(corner.Y-(-1)) > 1e-9 {
		t.Errorf("surface corner (u=0,v=0) = %v, want x=-1,y=-1", corner)
	}
}

func TestGridTrianglePatchCentroidHasNoNaN(t *testing.T) {
	v0 := cp(0, 0, 0)
	v1 := cp(1, 0, 0)
	v2 := cp(0, 1, 0)
	patch := NewGridTrianglePatch([3]ControlPoint{v0, v1, v2}, 3)
	got := patch.Evaluate(1.0/3, 1.0/3, 1.0/3)
	if math.IsNaN(got.Position.X) || math.IsNaN(got.Position.Y) || math.IsNaN(got.Position.Z) {
		t.Errorf("grid triangle patch produced NaN: %v", got.Position)
	}
}
