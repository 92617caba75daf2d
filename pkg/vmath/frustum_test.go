package vmath

import (
	"math"
	"testing"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: Vec3{0, 0, 1}, D: 0}

	tests := []struct {
		name     string
		point    Vec3
		expected float64
	}{
		{"origin", Vec3{0, 0, 0}, 0},
		{"in front", Vec3{0, 0, 5}, 5},
		{"behind", Vec3{0, 0, -3}, -3},
		{"offset XY", Vec3{10, -5, 2}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestAABBBasics(t *testing.T) {
	box := AABB{Min: Vec3{-1, -2, -3}, Max: Vec3{1, 2, 3}}

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0,0,0)", center)
	}
	size := box.Size()
	if size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2,4,6)", size)
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(Translate(Vec3{10, 20, 30}))
		want := AABB{Min: Vec3{9, 19, 29}, Max: Vec3{11, 21, 31}}
		if got != want {
			t.Errorf("translated = %v, want %v", got, want)
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(ScaleUniform(2))
		want := AABB{Min: Vec3{-2, -2, -2}, Max: Vec3{2, 2, 2}}
		if got != want {
			t.Errorf("scaled = %v, want %v", got, want)
		}
	})
}

func TestBoundsOf(t *testing.T) {
	got := BoundsOf([]Vec3{{1, -2, 0}, {-3, 4, 5}, {2, 2, -6}})
	want := AABB{Min: Vec3{-3, -2, -6}, Max: Vec3{2, 4, 5}}
	if got != want {
		t.Errorf("BoundsOf = %v, want %v", got, want)
	}
}

// cameraAtOrigin builds a view-projection matrix for a camera at the origin
// looking down -Z, matching this module's row-vector Perspective/LookAt.
func cameraAtOrigin(fovY, aspect, near, far float64) Mat4 {
	view := LookAt(Vec3{0, 0, 0}, Vec3{0, 0, -1}, Vec3{0, 1, 0})
	proj := PerspectiveFOV(fovY, aspect, near, far)
	return view.Multiply(proj)
}

func TestFrustumFromMatrixPlanesAreNormalized(t *testing.T) {
	vp := cameraAtOrigin(math.Pi/3, 16.0/9, 0.1, 100)
	f := FrustumFromMatrix(vp)
	for i, p := range f.Planes {
		if l := p.Normal.Len(); math.Abs(l-1) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1", i, l)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	vp := cameraAtOrigin(math.Pi/3, 16.0/9, 0.1, 100)
	f := FrustumFromMatrix(vp)

	tests := []struct {
		name     string
		point    Vec3
		expected bool
	}{
		{"center near", Vec3{0, 0, -1}, true},
		{"center mid", Vec3{0, 0, -50}, true},
		{"center far", Vec3{0, 0, -99}, true},
		{"behind camera", Vec3{0, 0, 1}, false},
		{"too far", Vec3{0, 0, -200}, false},
		{"too close", Vec3{0, 0, -0.01}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	vp := cameraAtOrigin(math.Pi/3, 16.0/9, 1, 100)
	f := FrustumFromMatrix(vp)

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", AABB{Vec3{-1, -1, -10}, Vec3{1, 1, -5}}, true},
		{"crosses near plane", AABB{Vec3{-1, -1, -2}, Vec3{1, 1, 2}}, true},
		{"behind camera", AABB{Vec3{-1, -1, 5}, Vec3{1, 1, 10}}, false},
		{"beyond far plane", AABB{Vec3{-1, -1, -150}, Vec3{1, 1, -120}}, false},
		{"far to the right", AABB{Vec3{100, -1, -10}, Vec3{110, 1, -5}}, false},
		{"large box containing frustum", AABB{Vec3{-200, -200, -200}, Vec3{200, 200, 200}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectsAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	vp := cameraAtOrigin(math.Pi/3, 16.0/9, 1, 100)
	f := FrustumFromMatrix(vp)

	tests := []struct {
		name     string
		center   Vec3
		radius   float64
		expected bool
	}{
		{"inside", Vec3{0, 0, -10}, 1, true},
		{"near the near plane", Vec3{0, 0, -0.5}, 1, true},
		{"behind", Vec3{0, 0, 5}, 1, false},
		{"far behind", Vec3{0, 0, 20}, 1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v,%v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}
