// Package decimate implements quadric error metric (QEM) edge collapse for
// mesh simplification.
package decimate

import (
	"container/heap"

	"github.com/go3d/raster3d/pkg/halfedge"
	"github.com/go3d/raster3d/pkg/vmath"
)

// planeQuadric builds the fundamental error quadric of the plane through
// point with unit normal: outer product of the homogeneous plane
// coefficients (n, d) with itself, where d = -dot(n, point).
func planeQuadric(normal, point vmath.Vec3) vmath.Mat4 {
	d := -normal.Dot(point)
	p := [4]float64{normal.X, normal.Y, normal.Z, d}

	var q vmath.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			q = q.Set(i, j, p[i]*p[j])
		}
	}
	return q
}

// edgeRecord is one candidate collapse, ordered by ascending quadric cost.
type edgeRecord struct {
	edge     halfedge.HalfEdgeID
	v0, v1   halfedge.VertexID
	target   halfedge.VertexData
	cost     float64
}

type edgeHeap []*edgeRecord

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x any) { *h = append(*h, x.(*edgeRecord)) }
func (h *edgeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Decimate collapses the n cheapest edges of mesh by quadric error, in
// place of an original-vertex-to-original-vertex midpoint, modifying mesh
// in place and returning it. Edge costs are computed once up front against the original
// topology; a collapse whose endpoints have since stopped being adjacent
// (because an earlier, cheaper collapse already touched them) is skipped
// rather than applied, so fewer than n collapses may occur if the mesh
// runs out of valid candidates.
func Decimate(mesh *halfedge.Mesh, n int) *halfedge.Mesh {
	faceQuadric := make(map[halfedge.FaceID]vmath.Mat4)
	for _, f := range mesh.Faces() {
		face := mesh.Face(f)
		verts := mesh.VerticesFromFace(f)
		point := mesh.Vertex(verts[0]).Data.Position
		faceQuadric[f] = planeQuadric(face.Normal, point)
	}

	vertexQuadric := make(map[halfedge.VertexID]vmath.Mat4)
	for _, v := range mesh.Vertices() {
		var q vmath.Mat4
		for _, f := range mesh.FacesFromVertex(v) {
			q = q.Add(faceQuadric[f])
		}
		vertexQuadric[v] = q
	}

	h := &edgeHeap{}
	heap.Init(h)
	seen := map[[2]halfedge.VertexID]bool{}
	for _, e := range mesh.HalfEdges() {
		v0, v1 := mesh.VerticesFromEdge(e)
		key := [2]halfedge.VertexID{v0, v1}
		if v0 > v1 {
			key = [2]halfedge.VertexID{v1, v0}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		combined := vertexQuadric[v0].Add(vertexQuadric[v1])
		// Force the last row to (0,0,0,1) so the matrix is invertible and
		// solving Q*p = (0,0,0,1) yields the error-minimizing point.
		quadric := combined.Set(3, 0, 0).Set(3, 1, 0).Set(3, 2, 0).Set(3, 3, 1)

		d0 := mesh.Vertex(v0).Data
		d1 := mesh.Vertex(v1).Data
		var target halfedge.VertexData
		if quadric.Determinant() < 1e-6 {
			target = halfedge.VertexData{
				Position: d0.Position.Add(d1.Position).Scale(0.5),
				Normal:   d0.Normal.Add(d1.Normal).Scale(0.5).Normalize(),
			}
		} else {
			// quadric has block form [[A,b],[0,1]] after the row-3
			// override above, so its inverse is [[A^-1,-A^-1 b],[0,1]]:
			// the error-minimizing point -A^-1*b sits in column 3 of
			// the inverse, not reachable via MulVec4 (which reads a row
			// under this package's row-vector convention).
			inv := quadric.Inverse()
			pos := vmath.Vec3{X: inv.At(0, 3), Y: inv.At(1, 3), Z: inv.At(2, 3)}
			target = halfedge.VertexData{
				Position: pos,
				Normal:   d0.Normal.Add(d1.Normal).Scale(0.5).Normalize(),
			}
		}

		cost := combined.MulVec4(target.Position.V4(1)).Dot(target.Position.V4(1))
		heap.Push(h, &edgeRecord{edge: e, v0: v0, v1: v1, target: target, cost: cost})
	}

	collapsed := 0
	for collapsed < n && h.Len() > 0 {
		rec := heap.Pop(h).(*edgeRecord)
		if !mesh.IsVertexLive(rec.v0) || !mesh.IsVertexLive(rec.v1) {
			continue
		}
		if _, err := mesh.JoinVertex(rec.v0, rec.v1, rec.target); err != nil {
			continue
		}
		collapsed++
	}

	return mesh
}
