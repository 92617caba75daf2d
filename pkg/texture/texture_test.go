package texture

import (
	"math"
	"testing"

	"github.com/go3d/raster3d/pkg/vmath"
)

func black2WhiteTexture() *Texture {
	img := NewImage(2, 1)
	img.SetAt(0, 0, vmath.Vec4{X: 0, Y: 0, Z: 0, W: 1})
	img.SetAt(1, 0, vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1})
	return NewTexture(img)
}

func TestSampleMirrorAddressing(t *testing.T) {
	tex := black2WhiteTexture()
	s := NewSampler()
	s.AddressU = AddressMirror
	s.AddressV = AddressMirror

	// u=1.25 mirrors to u=0.75, which is the darker (black) texel of this
	// 2x1 texture, matching the reflection at odd periods.
	got := tex.Sample(s, vmath.Vec2{X: 1.25, Y: 0.5})
	if got.X > 0.5 {
		t.Errorf("mirrored sample should land on the darker texel, got %v", got)
	}
}

func TestSampleRepeatWraps(t *testing.T) {
	tex := black2WhiteTexture()
	s := NewSampler()

	a := tex.Sample(s, vmath.Vec2{X: 0.25, Y: 0.5})
	b := tex.Sample(s, vmath.Vec2{X: 1.25, Y: 0.5})
	if math.Abs(a.X-b.X) > 1e-9 {
		t.Errorf("repeat addressing should be periodic: %v vs %v", a, b)
	}
}

func TestSampleBorderOutOfRange(t *testing.T) {
	tex := black2WhiteTexture()
	s := NewSampler()
	s.AddressU = AddressBorder
	s.AddressV = AddressBorder
	s.BorderColor = vmath.Vec4{X: 1, Y: 0, Z: 1, W: 1}

	got := tex.Sample(s, vmath.Vec2{X: 1.5, Y: 0.5})
	if got != s.BorderColor {
		t.Errorf("out-of-range border sample = %v, want border color %v", got, s.BorderColor)
	}
}

func TestSampleClampSaturates(t *testing.T) {
	tex := black2WhiteTexture()
	s := NewSampler()
	s.AddressU = AddressClamp
	s.AddressV = AddressClamp

	inRange := tex.Sample(s, vmath.Vec2{X: 1.0, Y: 0.5})
	farOut := tex.Sample(s, vmath.Vec2{X: 50.0, Y: 0.5})
	if inRange != farOut {
		t.Errorf("clamp addressing should saturate to the same edge texel: %v vs %v", inRange, farOut)
	}
}

func TestBuildMipsHalvesEachLevel(t *testing.T) {
	tex := NewTexture(NewImage(8, 4))
	tex.BuildMips()

	wantLevels := []struct{ w, h int }{{8, 4}, {4, 2}, {2, 1}, {1, 1}}
	if len(tex.Levels) != len(wantLevels) {
		t.Fatalf("got %d levels, want %d", len(tex.Levels), len(wantLevels))
	}
	for i, want := range wantLevels {
		if tex.Levels[i].Width != want.w || tex.Levels[i].Height != want.h {
			t.Errorf("level %d = %dx%d, want %dx%d", i, tex.Levels[i].Width, tex.Levels[i].Height, want.w, want.h)
		}
	}
}

func TestLevelOutOfRangeErrors(t *testing.T) {
	tex := NewTexture(NewImage(2, 2))
	if _, err := tex.Level(5); err == nil {
		t.Error("expected an error for an out-of-range mip level")
	}
}
