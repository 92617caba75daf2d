package main

import (
	"fmt"

	"github.com/go3d/raster3d/pkg/halfedge"
	"github.com/go3d/raster3d/pkg/pipeline"
	"github.com/go3d/raster3d/pkg/vmath"
)

// toHalfEdge rebuilds an indexed triangle buffer as a half-edge mesh, so it
// can be handed to pkg/subdiv or pkg/decimate. Per-vertex color and texture
// coordinates do not survive the round trip: the half-edge kernel only
// carries position and normal, matching pkg/halfedge.VertexData.
func toHalfEdge(vertices []pipeline.Vertex, indices []uint32) (*halfedge.Mesh, error) {
	m := halfedge.NewMesh()
	ids := make([]halfedge.VertexID, len(vertices))
	for i, v := range vertices {
		ids[i] = m.AddVertex(halfedge.VertexData{Position: v.Position, Normal: v.Normal})
	}
	for i := 0; i+2 < len(indices); i += 3 {
		if _, err := m.AddFace([]halfedge.VertexID{ids[indices[i]], ids[indices[i+1]], ids[indices[i+2]]}); err != nil {
			return nil, fmt.Errorf("toHalfEdge: triangle %d: %w", i/3, err)
		}
	}
	return m, nil
}

// fromHalfEdge flattens a half-edge mesh back into a vertex/index buffer,
// fan-triangulating any n-gon faces left behind by Catmull-Clark
// subdivision. Texture coordinates are not reconstructed (the mesh kernel
// does not carry them); every vertex gets a neutral white color so shading
// depends only on the lighting kernel.
func fromHalfEdge(m *halfedge.Mesh) ([]pipeline.Vertex, []uint32) {
	remap := make(map[halfedge.VertexID]uint32)
	var vertices []pipeline.Vertex
	for _, id := range m.Vertices() {
		data := m.Vertex(id).Data
		remap[id] = uint32(len(vertices))
		vertices = append(vertices, pipeline.Vertex{
			Position: data.Position,
			Normal:   data.Normal,
			Color:    vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		})
	}

	var indices []uint32
	for _, f := range m.Faces() {
		verts := m.VerticesFromFace(f)
		for i := 1; i+1 < len(verts); i++ {
			indices = append(indices, remap[verts[0]], remap[verts[i]], remap[verts[i+1]])
		}
	}
	return vertices, indices
}
