package vmath

import (
	"math"
	"testing"
)

func approxVec3(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestBarycentric(t *testing.T) {
	tests := []struct {
		name       string
		px, py     float64
		w0, w1, w2 float64
	}{
		{"vertex 0", 0, 0, 1, 0, 0},
		{"vertex 1", 10, 0, 0, 1, 0},
		{"vertex 2", 0, 10, 0, 0, 1},
		{"centroid", 10.0 / 3, 10.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w0, w1, w2 := Barycentric(0, 0, 10, 0, 0, 10, tc.px, tc.py)
			if math.Abs(w0-tc.w0) > 1e-6 || math.Abs(w1-tc.w1) > 1e-6 || math.Abs(w2-tc.w2) > 1e-6 {
				t.Errorf("Barycentric = (%v,%v,%v), want (%v,%v,%v)", w0, w1, w2, tc.w0, tc.w1, tc.w2)
			}
			if math.Abs(w0+w1+w2-1) > 1e-6 {
				t.Errorf("weights do not sum to 1: %v+%v+%v", w0, w1, w2)
			}
		})
	}

	t.Run("degenerate triangle returns sentinel", func(t *testing.T) {
		w0, w1, w2 := Barycentric(0, 0, 1, 0, 2, 0, 0.5, 0)
		if w0 != -1 || w1 != 1 || w2 != 1 {
			t.Errorf("degenerate triangle = (%v,%v,%v), want (-1,1,1)", w0, w1, w2)
		}
	})
}

func TestPerspectiveCorrectInterpolateAtVertex(t *testing.T) {
	// At w=(1,0,0) the interpolated attribute must equal a0 exactly,
	// regardless of the per-vertex depths.
	got := PerspectiveCorrectInterpolateFloat(1, 0, 0, 2, 5, 9, 10, 20, 30)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestPerspectiveCorrectInterpolateUniformDepth(t *testing.T) {
	// With equal depths the perspective-correct form degenerates to plain
	// barycentric interpolation.
	got := PerspectiveCorrectInterpolateFloat(0.5, 0.25, 0.25, 4, 4, 4, 10, 20, 30)
	want := 0.5*10 + 0.25*20 + 0.25*30
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := Translate(Vec3{1, 2, 3}).Multiply(RotateY(0.7)).Multiply(Scale(Vec3{2, 3, 4}))
	inv := m.Inverse()
	id := m.Multiply(inv)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(id.At(i, j)-want) > 1e-6 {
				t.Errorf("m*inv(m)[%d][%d] = %v, want %v", i, j, id.At(i, j), want)
			}
		}
	}
}

func TestMat4TranslatePoint(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	got := m.MulVec3(Vec3{0, 0, 0})
	if !approxVec3(got, Vec3{1, 2, 3}, 1e-9) {
		t.Errorf("got %v, want (1,2,3)", got)
	}
}

func TestMat4TranslateDirectionIgnored(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	got := m.MulVec3Dir(Vec3{5, 5, 5})
	if !approxVec3(got, Vec3{5, 5, 5}, 1e-9) {
		t.Errorf("translation should not affect a direction, got %v", got)
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	view := LookAt(Vec3{0, 0, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	origin := view.MulVec3(Vec3{0, 0, 5})
	if !approxVec3(origin, Vec3{0, 0, 0}, 1e-6) {
		t.Errorf("eye should map to origin in view space, got %v", origin)
	}
}

func TestVec3NormalizeDegenerate(t *testing.T) {
	got := Vec3{}.Normalize()
	if got != (Vec3{}) {
		t.Errorf("normalizing the zero vector should return the zero vector, got %v", got)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	got := Vec4{2, 4, 6, 2}.PerspectiveDivide()
	want := Vec4{1, 2, 3, 1}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
