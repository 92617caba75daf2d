// Package texture provides RGBA8 images with mip pyramids and a sampler
// that resolves a (u,v) coordinate to a color under configurable filtering
// and per-axis addressing.
package texture

import (
	"fmt"
	"math"

	"github.com/go3d/raster3d/pkg/vmath"
)

// Filter selects how a sample is reconstructed from neighboring texels.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Address selects how an out-of-[0,1] coordinate is folded back in.
type Address int

const (
	AddressRepeat Address = iota
	AddressMirror
	AddressClamp
	AddressBorder
)

// Image is a single RGBA8 mip level: row-major, top-left origin, 4 bytes
// per pixel. The byte length must equal Width*Height*4.
type Image struct {
	Width, Height int
	Bytes         []byte
}

// NewImage allocates a zeroed image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Bytes: make([]byte, width*height*4)}
}

// At returns the normalized [0,1] RGBA color at pixel (x, y). x and y must
// already be in range; callers are responsible for clamping/wrapping.
func (img *Image) At(x, y int) vmath.Vec4 {
	i := (y*img.Width + x) * 4
	return vmath.Vec4{
		X: float64(img.Bytes[i]) / 255,
		Y: float64(img.Bytes[i+1]) / 255,
		Z: float64(img.Bytes[i+2]) / 255,
		W: float64(img.Bytes[i+3]) / 255,
	}
}

// SetAt writes a normalized [0,1] RGBA color at pixel (x, y), clamping each
// channel before quantizing to a byte.
func (img *Image) SetAt(x, y int, c vmath.Vec4) {
	i := (y*img.Width + x) * 4
	img.Bytes[i] = quantize(c.X)
	img.Bytes[i+1] = quantize(c.Y)
	img.Bytes[i+2] = quantize(c.Z)
	img.Bytes[i+3] = quantize(c.W)
}

func quantize(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// Texture owns one or more mip levels, finest first (level 0 is full
// resolution).
type Texture struct {
	Levels []*Image
}

// NewTexture wraps a single full-resolution image with no additional mip
// levels.
func NewTexture(base *Image) *Texture {
	return &Texture{Levels: []*Image{base}}
}

// BuildMips appends box-filtered mip levels down to 1x1, grounded on the
// same halving-per-level convention most mip pyramids use.
func (t *Texture) BuildMips() {
	cur := t.Levels[0]
	for cur.Width > 1 || cur.Height > 1 {
		nw, nh := max(1, cur.Width/2), max(1, cur.Height/2)
		next := NewImage(nw, nh)
		for y := 0; y < nh; y++ {
			for x := 0; x < nw; x++ {
				sx0, sy0 := x*2, y*2
				sx1, sy1 := min(sx0+1, cur.Width-1), min(sy0+1, cur.Height-1)
				c := cur.At(sx0, sy0).Add(cur.At(sx1, sy0)).Add(cur.At(sx0, sy1)).Add(cur.At(sx1, sy1)).Scale(0.25)
				next.SetAt(x, y, c)
			}
		}
		t.Levels = append(t.Levels, next)
		cur = next
	}
}

// Level returns the mip image at the given level, erroring if it is out of
// range — an out-of-range mip level is a caller-contract violation, and the
// caller decides whether to treat it as fatal.
func (t *Texture) Level(level int) (*Image, error) {
	if level < 0 || level >= len(t.Levels) {
		return nil, fmt.Errorf("mip level %d out of range [0,%d)", level, len(t.Levels))
	}
	return t.Levels[level], nil
}

// Sampler describes how a Texture is addressed and filtered. It is a pure
// value and may be copied freely.
type Sampler struct {
	Filter      Filter
	AddressU    Address
	AddressV    Address
	BorderColor vmath.Vec4
}

// NewSampler returns a sampler with nearest filtering and repeat addressing
// on both axes — the common default.
func NewSampler() Sampler {
	return Sampler{Filter: FilterNearest, AddressU: AddressRepeat, AddressV: AddressRepeat}
}

// wrap applies an address mode to a coordinate, returning -1 as the
// out-of-range sentinel under AddressBorder.
func wrap(coord float64, mode Address) float64 {
	switch mode {
	case AddressRepeat:
		c := coord - math.Floor(coord)
		return c
	case AddressMirror:
		period := math.Floor(coord)
		frac := coord - period
		if math.Mod(period, 2) != 0 {
			frac = 1 - frac
		}
		return frac
	case AddressClamp:
		return math.Max(0, math.Min(1, coord))
	case AddressBorder:
		if coord < 0 || coord > 1 {
			return -1
		}
		return coord
	default:
		return coord
	}
}

// Sample resolves the texture at uv under the given sampler, sampling the
// finest (level 0) mip. It applies addressing to each axis independently,
// falls back to BorderColor when either axis's addressing returns the
// out-of-range sentinel, flips v (image v=0 is the top row, uv v=0 is the
// bottom), and dispatches to nearest or bilinear reconstruction.
func (t *Texture) Sample(s Sampler, uv vmath.Vec2) vmath.Vec4 {
	return t.SampleLevel(s, uv, 0)
}

// SampleLevel is Sample against an explicit mip level.
func (t *Texture) SampleLevel(s Sampler, uv vmath.Vec2, level int) vmath.Vec4 {
	img, err := t.Level(level)
	if err != nil {
		img = t.Levels[0]
	}

	u := wrap(uv.X, s.AddressU)
	v := wrap(uv.Y, s.AddressV)
	if u == -1 || v == -1 {
		return s.BorderColor
	}
	v = 1 - v

	switch s.Filter {
	case FilterLinear:
		return sampleLinear(img, s, u, v)
	default:
		return sampleNearest(img, s, u, v)
	}
}

func sampleNearest(img *Image, s Sampler, u, v float64) vmath.Vec4 {
	fx := u*float64(img.Width) - 0.5
	fy := v*float64(img.Height) - 0.5
	x := wrapPixel(int(math.Round(fx)), img.Width, s.AddressU)
	y := wrapPixel(int(math.Round(fy)), img.Height, s.AddressV)
	return img.At(x, y)
}

func sampleLinear(img *Image, s Sampler, u, v float64) vmath.Vec4 {
	fx := u*float64(img.Width) - 0.5
	fy := v*float64(img.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x0w := wrapPixel(x0, img.Width, s.AddressU)
	x1w := wrapPixel(x0+1, img.Width, s.AddressU)
	y0w := wrapPixel(y0, img.Height, s.AddressV)
	y1w := wrapPixel(y0+1, img.Height, s.AddressV)

	c00 := img.At(x0w, y0w)
	c10 := img.At(x1w, y0w)
	c01 := img.At(x0w, y1w)
	c11 := img.At(x1w, y1w)

	top := c00.Lerp(c10, tx)
	bot := c01.Lerp(c11, tx)
	return top.Lerp(bot, ty)
}

// wrapPixel maps an integer pixel coordinate that may have stepped outside
// [0,size) back into range per the addressing mode. Border addressing has
// already been resolved to a sentinel upstream, so it falls back to clamp
// behavior here (there is no pixel to fetch for a border sample).
func wrapPixel(x, size int, mode Address) int {
	switch mode {
	case AddressRepeat:
		x %= size
		if x < 0 {
			x += size
		}
		return x
	case AddressMirror:
		period := x / size
		x %= size
		if x < 0 {
			x += size
			period--
		}
		if period%2 != 0 {
			x = size - 1 - x
		}
		return x
	default:
		if x < 0 {
			return 0
		}
		if x >= size {
			return size - 1
		}
		return x
	}
}
