package halfedge

import "fmt"

// EdgesFromVertex returns the half-edges outgoing from v, in rotational
// order. It walks each face's Next chain looking for the edge returning to
// v; crossing to the adjacent face via Twin each time it finds one. The
// walk stops when it reaches the first neighbor again (a closed fan) or an
// edge with no Next (the mesh boundary). A vertex on the mesh boundary
// requires a second pass seeded from the twin of its first edge, rotating
// the other way: the Next of each half-edge arriving at v leaves v, and its
// Twin is the next arriving half-edge, until one has no face.
//
// Both stop tests compare an edge's target with a plain equality check:
// using assignment in that position instead would make the comparison
// always true and corrupt the edge list.
func (m *Mesh) EdgesFromVertex(v VertexID) []HalfEdgeID {
	start := m.vertices[v].Edge
	if start == HalfEdgeID(None) {
		return nil
	}

	edges := []HalfEdgeID{start}
	primeID := m.halfEdges[start].Vertex
	edge := start
	closed := false

	for {
		next := m.halfEdges[edge].Next
		if next == HalfEdgeID(None) {
			break
		}
		edge = next
		if m.halfEdges[edge].Vertex == primeID {
			closed = true
			break
		}
		if m.halfEdges[edge].Vertex == v {
			edge = m.halfEdges[edge].Twin
			edges = append(edges, edge)
		}
	}

	if !closed {
		edge = m.halfEdges[start].Twin
		for {
			next := m.halfEdges[edge].Next
			if next == HalfEdgeID(None) {
				break
			}
			edges = append(edges, next)
			edge = m.halfEdges[next].Twin
		}
	}

	return edges
}

// VerticesFromFace returns the face's boundary vertices in winding order,
// starting just after the face's reference edge's target.
func (m *Mesh) VerticesFromFace(f FaceID) []VertexID {
	start := m.faces[f].Edge
	primeID := m.halfEdges[start].Vertex

	var verts []VertexID
	edge := start
	for {
		edge = m.halfEdges[edge].Next
		verts = append(verts, m.halfEdges[edge].Vertex)
		if m.halfEdges[edge].Vertex == primeID {
			break
		}
	}
	return verts
}

// VerticesFromEdge returns the half-edge's (source, target) endpoints.
func (m *Mesh) VerticesFromEdge(e HalfEdgeID) (source, target VertexID) {
	target = m.halfEdges[e].Vertex
	source = m.halfEdges[m.halfEdges[e].Twin].Vertex
	return source, target
}

// FacesFromVertex returns the faces incident to v. A boundary edge
// contributes no face and is skipped.
func (m *Mesh) FacesFromVertex(v VertexID) []FaceID {
	var faces []FaceID
	for _, e := range m.EdgesFromVertex(v) {
		if f := m.halfEdges[e].Face; m.IsFaceLive(f) {
			faces = append(faces, f)
		}
	}
	return faces
}

// NeighborVertices returns the distinct vertices sharing a face with v,
// excluding v itself.
func (m *Mesh) NeighborVertices(v VertexID) []VertexID {
	seen := map[VertexID]bool{v: true}
	var out []VertexID
	for _, f := range m.FacesFromVertex(v) {
		for _, n := range m.VerticesFromFace(f) {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// DeleteVertex removes v along with every edge and face incident to it. If
// the resulting hole is a single closed boundary loop, a new face is
// stitched across it from the surviving perimeter edges; otherwise the
// region is simply left open.
func (m *Mesh) DeleteVertex(v VertexID) {
	incident := m.EdgesFromVertex(v)
	for _, e := range incident {
		src, dst := m.VerticesFromEdge(e)
		m.removeEdgeKey(src, dst)
		m.removeEdgeKey(dst, src)
	}

	for _, f := range m.FacesFromVertex(v) {
		m.tombstoneFace(f)
	}

	start := m.vertices[v].Edge
	var neighbors []VertexID
	newFace := false
	if start != HalfEdgeID(None) {
		primeID := m.halfEdges[start].Vertex
		neighbors = append(neighbors, primeID)

		edge := start
		for {
			next := m.halfEdges[edge].Next
			if next == HalfEdgeID(None) {
				break
			}
			edge = next
			if m.halfEdges[edge].Vertex == primeID {
				newFace = true
				break
			}
			if m.halfEdges[edge].Vertex == v {
				edge = m.halfEdges[edge].Twin
				continue
			}
			neighbors = append(neighbors, m.halfEdges[edge].Vertex)
		}
	}

	if newFace && len(neighbors) >= 3 {
		for i, n := range neighbors {
			next := neighbors[(i+1)%len(neighbors)]
			if id, ok := m.edgeMap[edgeKey{n, next}]; ok {
				m.vertices[n].Edge = id
			}
		}
		m.AddFace(neighbors)
	}

	for _, e := range incident {
		m.tombstoneHalfEdge(e)
		m.tombstoneHalfEdge(m.halfEdges[e].Twin)
	}
	m.vertexLive[v] = false
}

// JoinVertex collapses the edge between adjacent vertices v0 and v1 into a
// single new vertex carrying data. Each face on either side of that edge is
// re-created over its remaining vertices, or removed when only two remain
// (see closeFaceAround); no face is re-triangulated. It errors if v0 and v1
// are not directly connected by an edge.
func (m *Mesh) JoinVertex(v0, v1 VertexID, data VertexData) (VertexID, error) {
	deleteEdge, ok := m.edgeMap[edgeKey{v0, v1}]
	if !ok {
		return VertexID(None), fmt.Errorf("halfedge: JoinVertex requires v0 and v1 to share an edge")
	}

	newVert := m.AddVertex(data)
	twin := m.halfEdges[deleteEdge].Twin

	// reparentEdges excludes the shared-neighbor case, so the v0-v1 edge
	// itself is untouched by either call and deleteEdge/twin stay valid.
	m.reparentEdges(v0, v1, newVert)
	m.reparentEdges(v1, v0, newVert)

	m.closeFaceAround(deleteEdge, v0, v1, newVert)
	m.closeFaceAround(twin, v0, v1, newVert)

	m.removeEdgeKey(v0, v1)
	m.removeEdgeKey(v1, v0)
	m.tombstoneHalfEdge(deleteEdge)
	m.tombstoneHalfEdge(twin)

	m.vertexLive[v0] = false
	m.vertexLive[v1] = false
	return newVert, nil
}

// reparentEdges re-targets every edge incident to from (other than the one
// shared with excludeOther) so it instead touches newVert.
func (m *Mesh) reparentEdges(from, excludeOther, newVert VertexID) {
	for _, e := range m.EdgesFromVertex(from) {
		target := m.halfEdges[e].Vertex
		if target == excludeOther {
			continue
		}
		twin := m.halfEdges[e].Twin
		src, dst := m.VerticesFromEdge(e)
		m.removeEdgeKey(src, dst)
		m.removeEdgeKey(dst, src)

		m.halfEdges[twin].Vertex = newVert
		if m.vertices[newVert].Edge == HalfEdgeID(None) {
			m.vertices[newVert].Edge = e
		}
		m.edgeMap[edgeKey{newVert, dst}] = e
		m.edgeMap[edgeKey{dst, newVert}] = twin
	}
}

// closeFaceAround rebuilds the face bordered by edge (if any) once v0 and
// v1 have collapsed into newVert, replacing their run in the face's vertex
// list with a single newVert and tombstoning the original face. A face
// left with at least 3 vertices is re-added; a triangle left with two sides
// is dropped, its two outer half-edges become twins of each other and its
// two inner half-edges are tombstoned.
func (m *Mesh) closeFaceAround(edge HalfEdgeID, v0, v1, newVert VertexID) {
	f := m.halfEdges[edge].Face
	if f == FaceID(None) || !m.IsFaceLive(f) {
		return
	}
	verts := m.VerticesFromFace(f)
	var kept []VertexID
	insertedNew := false
	for _, v := range verts {
		if v == v0 || v == v1 || v == newVert {
			if !insertedNew {
				kept = append(kept, newVert)
				insertedNew = true
			}
			continue
		}
		kept = append(kept, v)
	}
	m.tombstoneFace(f)
	if len(kept) >= 3 {
		m.AddFace(kept)
		return
	}
	a := m.halfEdges[edge].Next
	b := m.halfEdges[a].Next
	x := m.halfEdges[a].Vertex
	outerA, outerB := m.halfEdges[a].Twin, m.halfEdges[b].Twin
	m.halfEdges[outerA].Twin, m.halfEdges[outerB].Twin = outerB, outerA
	m.edgeMap[edgeKey{x, newVert}], m.edgeMap[edgeKey{newVert, x}] = outerA, outerB
	if m.vertices[x].Edge == b {
		m.vertices[x].Edge = outerA
	}
	if m.vertices[newVert].Edge == a {
		m.vertices[newVert].Edge = outerB
	}
	m.tombstoneHalfEdge(a)
	m.tombstoneHalfEdge(b)
}
