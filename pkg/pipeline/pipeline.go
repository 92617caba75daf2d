// Package pipeline implements the programmable software rasterizer: vertex
// transform, MSAA-sampled triangle/line/point rasterization,
// perspective-correct attribute interpolation, depth testing and
// source-over compositing.
package pipeline

import (
	"math"

	"github.com/go3d/raster3d/pkg/shader"
	"github.com/go3d/raster3d/pkg/vmath"
)

// Vertex is one input vertex: a position, vertex color, texture coordinate
// and normal.
type Vertex struct {
	Position vmath.Vec3
	Color    vmath.Vec4
	Texcoord vmath.Vec2
	Normal   vmath.Vec3
}

// Topology selects how the index/vertex stream is grouped into primitives.
type Topology int

const (
	TopologyPointList Topology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
)

// Program bundles a shader's per-draw uniforms. SetShader swaps it in
// wholesale between draws.
type Program struct {
	Uniforms shader.Uniforms
}

// Pipeline owns one framebuffer and the vertex/index/topology/shader state
// of the current draw. It is single-owner: only this Pipeline mutates its
// framebuffer.
type Pipeline struct {
	FB *Framebuffer

	vertices []Vertex
	indices  []uint32
	topology Topology
	program  Program

	CullBackfaces bool
}

// New creates a pipeline that owns a freshly allocated framebuffer of the
// given dimensions and sample count.
func New(width, height, sampleCount int) *Pipeline {
	return &Pipeline{FB: NewFramebuffer(width, height, sampleCount)}
}

// SetVertexBuffer installs the vertex stream used by subsequent draws.
func (p *Pipeline) SetVertexBuffer(vertices []Vertex) { p.vertices = vertices }

// SetIndexBuffer installs the index stream used by subsequent DrawIndexed
// calls.
func (p *Pipeline) SetIndexBuffer(indices []uint32) { p.indices = indices }

// SetTopology selects how vertices/indices group into primitives.
func (p *Pipeline) SetTopology(t Topology) { p.topology = t }

// SetShader installs the shader program (transforms and lighting/material
// uniforms) used by subsequent draws.
func (p *Pipeline) SetShader(prog Program) { p.program = prog }

// Clear fills the framebuffer's color plane with color and its depth plane
// with depth.
func (p *Pipeline) Clear(color Color, depth float64) { p.FB.Clear(color, depth) }

// ReadFramebuffer resolves the pixel at (x, y), averaging RGB across
// sample slots.
func (p *Pipeline) ReadFramebuffer(x, y int) (r, g, b float64) { return p.FB.ReadFramebuffer(x, y) }

// clipVertex is a vertex after the vertex shader and homogeneous divide,
// expressed in screen space, carrying the data the fragment shader needs.
type clipVertex struct {
	screenX, screenY float64
	screenZ          float64 // NDC z, post-divide, used for depth test
	viewZ            float64 // pre-divide w (view-space depth under PerspectiveFOV), used for PCI
	frag             shader.FragmentInput
}

func (p *Pipeline) transform(v Vertex) (clipVertex, bool) {
	in := shader.InputAssembler(v.Position, v.Normal, v.Texcoord, v.Color)
	clip, frag := shader.VertexShader(in, p.program.Uniforms)
	if clip.W == 0 {
		return clipVertex{}, false
	}
	ndc := clip.PerspectiveDivide()
	return clipVertex{
		screenX: (ndc.X + 1) * 0.5 * float64(p.FB.Width),
		screenY: (1 - ndc.Y) * 0.5 * float64(p.FB.Height),
		screenZ: ndc.Z,
		viewZ:   clip.W,
		frag:    frag,
	}, true
}

// Draw rasterizes count vertices starting at baseVertex from the installed
// vertex buffer, grouped per the installed topology.
func (p *Pipeline) Draw(baseVertex, count int) {
	idx := make([]uint32, count)
	for i := range idx {
		idx[i] = uint32(baseVertex + i)
	}
	p.drawIndices(idx)
}

// DrawIndexed rasterizes count indices starting at indexOffset from the
// installed index buffer, each index offset by baseVertex before lookup.
func (p *Pipeline) DrawIndexed(indexOffset, baseVertex, count int) {
	idx := make([]uint32, count)
	for i := range idx {
		idx[i] = p.indices[indexOffset+i] + uint32(baseVertex)
	}
	p.drawIndices(idx)
}

func (p *Pipeline) drawIndices(idx []uint32) {
	switch p.topology {
	case TopologyPointList:
		for _, i := range idx {
			p.drawPoint(p.vertices[i])
		}
	case TopologyLineList:
		for i := 0; i+1 < len(idx); i += 2 {
			p.drawLine(p.vertices[idx[i]], p.vertices[idx[i+1]])
		}
	case TopologyLineStrip:
		for i := 0; i+1 < len(idx); i++ {
			p.drawLine(p.vertices[idx[i]], p.vertices[idx[i+1]])
		}
	case TopologyTriangleList:
		for i := 0; i+3 <= len(idx); i += 3 {
			p.drawTriangle(p.vertices[idx[i]], p.vertices[idx[i+1]], p.vertices[idx[i+2]])
		}
	case TopologyTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				p.drawTriangle(p.vertices[idx[i]], p.vertices[idx[i+1]], p.vertices[idx[i+2]])
			} else {
				p.drawTriangle(p.vertices[idx[i+1]], p.vertices[idx[i]], p.vertices[idx[i+2]])
			}
		}
	}
}

// drawPoint rasterizes a single point at the rounded pixel center, tested
// against sample slot 0 only.
func (p *Pipeline) drawPoint(v Vertex) {
	cv, ok := p.transform(v)
	if !ok {
		return
	}
	x := int(math.Floor(cv.screenX + 0.5))
	y := int(math.Floor(cv.screenY + 0.5))
	if x < 0 || x >= p.FB.Width || y < 0 || y >= p.FB.Height {
		return
	}
	if cv.screenZ > p.FB.depthAt(0, x, y) {
		return
	}
	color := p.shade(cv.frag)
	p.FB.setSample(0, x, y, color, cv.screenZ)
}

// drawLine rasterizes a Bresenham line between two vertices with the
// mid-point decision variable, swapping to the major axis and linearly
// interpolating attributes by step/length. Lines receive no MSAA coverage
// and write sample slot 0 only.
func (p *Pipeline) drawLine(v0, v1 Vertex) {
	cv0, ok0 := p.transform(v0)
	cv1, ok1 := p.transform(v1)
	if !ok0 || !ok1 {
		return
	}

	x0, y0 := int(math.Round(cv0.screenX)), int(math.Round(cv0.screenY))
	x1, y1 := int(math.Round(cv1.screenX)), int(math.Round(cv1.screenY))

	if x0 == x1 && y0 == y1 {
		p.plotLineSample(x0, y0, cv0, cv1, 0)
		return
	}

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		cv0, cv1 = cv1, cv0
	}

	major := x1 - x0
	minor := abs(y1 - y0)
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	sub := 2*minor - major
	y := y0
	length := float64(major)
	for x := x0; x <= x1; x++ {
		t := 0.0
		if length > 0 {
			t = float64(x-x0) / length
		}

		px, py := x, y
		if steep {
			px, py = y, x
		}
		p.plotLineSample(px, py, cv0, cv1, t)

		if sub > 0 {
			y += ystep
			sub += 2*minor - 2*major
		} else {
			sub += 2 * minor
		}
	}
}

func (p *Pipeline) plotLineSample(x, y int, cv0, cv1 clipVertex, t float64) {
	if x < 0 || x >= p.FB.Width || y < 0 || y >= p.FB.Height {
		return
	}
	// Lines interpolate linearly by t, not perspective-correct weighting.
	depth := cv0.screenZ + (cv1.screenZ-cv0.screenZ)*t
	if depth > p.FB.depthAt(0, x, y) {
		return
	}
	color := p.shade(lerpFragmentInput(cv0.frag, cv1.frag, t))
	p.FB.setSample(0, x, y, color, depth)
}

// lerpFragmentInput linearly interpolates every field of a FragmentInput.
func lerpFragmentInput(a, b shader.FragmentInput, t float64) shader.FragmentInput {
	return shader.FragmentInput{
		WorldPos: a.WorldPos.Lerp(b.WorldPos, t),
		Normal:   a.Normal.Lerp(b.Normal, t),
		Texcoord: a.Texcoord.Lerp(b.Texcoord, t),
		Color:    a.Color.Lerp(b.Color, t),
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// shade invokes the fragment shader and converts its vec4 output to a
// pipeline Color.
func (p *Pipeline) shade(frag shader.FragmentInput) Color {
	c := shader.FragmentShader(frag, p.program.Uniforms)
	return Color{R: c.X, G: c.Y, B: c.Z, A: c.W}
}
