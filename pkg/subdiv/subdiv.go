// Package subdiv implements Loop and Catmull-Clark subdivision over
// halfedge meshes, each producing a finer mesh with entirely new vertex
// and face arenas.
package subdiv

import (
	"github.com/go3d/raster3d/pkg/halfedge"
)

// edgeKey identifies a directed edge by its two origin-mesh vertex IDs;
// per-edge maps store both directions of an edge.
type edgeKey struct {
	a, b halfedge.VertexID
}

func avgData(a, b halfedge.VertexData, wa, wb float64) halfedge.VertexData {
	return halfedge.VertexData{
		Position: a.Position.Scale(wa).Add(b.Position.Scale(wb)),
		Normal:   a.Normal.Scale(wa).Add(b.Normal.Scale(wb)),
	}
}

// Loop applies one step of Loop subdivision to a triangle mesh: each
// triangle splits into four, existing vertices are repositioned by the
// even-vertex mask and a new vertex is inserted per edge by the odd-vertex
// mask (the 3/8-1/8 butterfly stencil for interior edges, the midpoint
// rule for boundary edges).
func Loop(origin *halfedge.Mesh) *halfedge.Mesh {
	result := halfedge.NewMesh()

	// Repositioned copies of the original vertices ("even" vertices).
	newFromOld := make(map[halfedge.VertexID]halfedge.VertexID)
	for _, v := range origin.Vertices() {
		data := origin.Vertex(v).Data
		neighbors := origin.NeighborVertices(v)
		n := float64(len(neighbors))

		var u float64
		if len(neighbors) == 3 {
			u = 3.0 / 16.0
		} else if n > 0 {
			u = 3.0 / (8.0 * n)
		}

		acc := halfedge.VertexData{
			Position: data.Position.Scale(1 - n*u),
			Normal:   data.Normal.Scale(1 - n*u),
		}
		for _, nb := range neighbors {
			nd := origin.Vertex(nb).Data
			acc.Position = acc.Position.Add(nd.Position.Scale(u))
			acc.Normal = acc.Normal.Add(nd.Normal.Scale(u))
		}
		newFromOld[v] = result.AddVertex(acc)
	}

	// One new ("odd") vertex per undirected edge.
	edgeVerts := make(map[edgeKey]halfedge.VertexID)
	for _, e := range origin.HalfEdges() {
		v0, v1 := origin.VerticesFromEdge(e)
		if _, ok := edgeVerts[edgeKey{v0, v1}]; ok {
			continue
		}
		if _, ok := edgeVerts[edgeKey{v1, v0}]; ok {
			continue
		}

		d0 := origin.Vertex(v0).Data
		d1 := origin.Vertex(v1).Data

		twin := origin.HalfEdge(e).Twin
		boundary := !origin.IsFaceLive(origin.HalfEdge(twin).Face)

		var newData halfedge.VertexData
		if boundary {
			newData = avgData(d0, d1, 0.5, 0.5)
		} else {
			v2 := origin.HalfEdge(origin.HalfEdge(e).Next).Vertex
			v3 := origin.HalfEdge(origin.HalfEdge(twin).Next).Vertex
			d2 := origin.Vertex(v2).Data
			d3 := origin.Vertex(v3).Data
			newData = halfedge.VertexData{
				Position: d0.Position.Scale(3.0 / 8.0).Add(d1.Position.Scale(3.0 / 8.0)).
					Add(d2.Position.Scale(1.0 / 8.0)).Add(d3.Position.Scale(1.0 / 8.0)),
				Normal: d0.Normal.Scale(3.0 / 8.0).Add(d1.Normal.Scale(3.0 / 8.0)).
					Add(d2.Normal.Scale(1.0 / 8.0)).Add(d3.Normal.Scale(1.0 / 8.0)),
			}
		}

		id := result.AddVertex(newData)
		edgeVerts[edgeKey{v0, v1}] = id
		edgeVerts[edgeKey{v1, v0}] = id
	}

	// Rebuild topology: each origin triangle becomes 4.
	for _, f := range origin.Faces() {
		e0 := origin.Face(f).Edge
		e1 := origin.HalfEdge(e0).Next
		e2 := origin.HalfEdge(e1).Next
		edges := [3]halfedge.HalfEdgeID{e0, e1, e2}

		target := func(e halfedge.HalfEdgeID) halfedge.VertexID { return origin.HalfEdge(e).Vertex }

		var center [3]halfedge.VertexID
		for i := 0; i < 3; i++ {
			a, b := target(edges[i]), target(edges[(i+2)%3])
			if id, ok := edgeVerts[edgeKey{a, b}]; ok {
				center[i] = id
			} else {
				center[i] = edgeVerts[edgeKey{b, a}]
			}
		}
		result.AddFace([]halfedge.VertexID{center[0], center[1], center[2]})

		for i := 0; i < 3; i++ {
			corner := newFromOld[target(edges[(i+2)%3])]
			result.AddFace([]halfedge.VertexID{corner, center[i], center[(i+2)%3]})
		}
	}

	return result
}

// CatmullClark applies one step of Catmull-Clark subdivision: every face
// produces a face point, every edge an edge point, every original vertex
// is repositioned, and each original n-gon face is replaced by n
// quadrilaterals fanned around its face point.
func CatmullClark(origin *halfedge.Mesh) *halfedge.Mesh {
	result := halfedge.NewMesh()

	faceVerts := make(map[edgeKey]halfedge.VertexID)
	for _, f := range origin.Faces() {
		verts := origin.VerticesFromFace(f)
		n := float64(len(verts))

		var acc halfedge.VertexData
		for _, v := range verts {
			d := origin.Vertex(v).Data
			acc.Position = acc.Position.Add(d.Position)
			acc.Normal = acc.Normal.Add(d.Normal)
		}
		acc.Position = acc.Position.Scale(1 / n)
		acc.Normal = acc.Normal.Scale(1 / n)

		id := result.AddVertex(acc)
		for i := range verts {
			faceVerts[edgeKey{verts[i], verts[(i+1)%len(verts)]}] = id
		}
	}

	edgeVerts := make(map[edgeKey]halfedge.VertexID)
	for _, e := range origin.HalfEdges() {
		v0, v1 := origin.VerticesFromEdge(e)
		if _, ok := edgeVerts[edgeKey{v0, v1}]; ok {
			continue
		}

		d0 := origin.Vertex(v0).Data
		d1 := origin.Vertex(v1).Data

		count := 2.0
		pos := d0.Position.Add(d1.Position)
		normal := d0.Normal.Add(d1.Normal)

		if fv, ok := faceVerts[edgeKey{v0, v1}]; ok {
			fd := result.Vertex(fv).Data
			pos = pos.Add(fd.Position)
			normal = normal.Add(fd.Normal)
			count++
		}
		if fv, ok := faceVerts[edgeKey{v1, v0}]; ok {
			fd := result.Vertex(fv).Data
			pos = pos.Add(fd.Position)
			normal = normal.Add(fd.Normal)
			count++
		}

		id := result.AddVertex(halfedge.VertexData{Position: pos.Scale(1 / count), Normal: normal.Scale(1 / count)})
		edgeVerts[edgeKey{v0, v1}] = id
		edgeVerts[edgeKey{v1, v0}] = id
	}

	newFromOld := make(map[halfedge.VertexID]halfedge.VertexID)
	for _, v := range origin.Vertices() {
		d := origin.Vertex(v).Data
		count := 4.0
		pos := d.Position.Scale(4)
		normal := d.Normal.Scale(4)

		for _, e := range origin.EdgesFromVertex(v) {
			target := origin.HalfEdge(e).Vertex
			if ev, ok := edgeVerts[edgeKey{v, target}]; ok {
				ed := result.Vertex(ev).Data
				pos = pos.Add(ed.Position.Scale(2))
				normal = normal.Add(ed.Normal.Scale(2))
				count += 2
			}
			if fv, ok := faceVerts[edgeKey{v, target}]; ok {
				fd := result.Vertex(fv).Data
				pos = pos.Add(fd.Position)
				normal = normal.Add(fd.Normal)
				count++
			}
		}

		pos = pos.Scale(1 / count)
		normal = normal.Scale(1 / count)
		newFromOld[v] = result.AddVertex(halfedge.VertexData{Position: pos, Normal: normal})
	}

	for _, f := range origin.Faces() {
		verts := origin.VerticesFromFace(f)
		n := len(verts)
		center, ok := faceVerts[edgeKey{verts[0], verts[1]}]
		if !ok {
			continue
		}

		for i := 0; i < n; i++ {
			prev := (i - 1 + n) % n
			quad := []halfedge.VertexID{
				newFromOld[verts[i]],
				edgeVerts[edgeKey{verts[i], verts[(i+1)%n]}],
				center,
				edgeVerts[edgeKey{verts[prev], verts[i]}],
			}
			result.AddFace(quad)
		}
	}

	return result
}
