// Package halfedge implements a half-edge mesh: an arena of vertices,
// directed half-edges and faces addressed by stable integer IDs, supporting
// incremental construction (AddVertex/AddFace) and topological edits
// (DeleteVertex/JoinVertex) used by subdivision and decimation.
package halfedge

import (
	"fmt"

	"github.com/go3d/raster3d/pkg/vmath"
)

// VertexID, HalfEdgeID and FaceID are stable indices into a Mesh's arenas.
// None is the reserved "no entry" sentinel for all three.
type VertexID int
type HalfEdgeID int
type FaceID int

const None = -1

// VertexData is the payload carried by a mesh vertex.
type VertexData struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
}

// Vertex is one arena slot. Edge is one half-edge outgoing from this
// vertex; any outgoing half-edge will do, since it is used to seed the
// rotation around the vertex in EdgesFromVertex and DeleteVertex.
type Vertex struct {
	ID   VertexID
	Data VertexData
	Edge HalfEdgeID
}

// HalfEdge is a directed edge. Vertex is the half-edge's target (the
// vertex it points to); its source is Twin's Vertex.
type HalfEdge struct {
	ID   HalfEdgeID
	Vertex VertexID
	Face   FaceID
	Twin   HalfEdgeID
	Next   HalfEdgeID
}

// Face is one polygon, referencing one of its boundary half-edges.
type Face struct {
	ID     FaceID
	Edge   HalfEdgeID
	Normal vmath.Vec3
}

// edgeKey identifies a directed edge by its endpoint vertex IDs.
type edgeKey struct {
	from, to VertexID
}

// Mesh is a half-edge mesh. Deleted slots are tombstoned (zeroed ID fields
// set to None is not sufficient to detect tombstones — Mesh tracks
// liveness with a parallel bitset per arena) rather than compacted, so IDs
// remain stable across edits.
type Mesh struct {
	vertices  []Vertex
	halfEdges []HalfEdge
	faces     []Face

	vertexLive   []bool
	halfEdgeLive []bool
	faceLive     []bool

	edgeMap map[edgeKey]HalfEdgeID
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{edgeMap: make(map[edgeKey]HalfEdgeID)}
}

// AddVertex appends a new vertex to the arena and returns its ID.
func (m *Mesh) AddVertex(data VertexData) VertexID {
	id := VertexID(len(m.vertices))
	m.vertices = append(m.vertices, Vertex{ID: id, Data: data, Edge: HalfEdgeID(None)})
	m.vertexLive = append(m.vertexLive, true)
	return id
}

// Vertex returns the live vertex at id.
func (m *Mesh) Vertex(id VertexID) Vertex { return m.vertices[id] }

// HalfEdge returns the live half-edge at id.
func (m *Mesh) HalfEdge(id HalfEdgeID) HalfEdge { return m.halfEdges[id] }

// Face returns the live face at id.
func (m *Mesh) Face(id FaceID) Face { return m.faces[id] }

// IsVertexLive reports whether id still refers to a live vertex.
func (m *Mesh) IsVertexLive(id VertexID) bool {
	return id >= 0 && int(id) < len(m.vertexLive) && m.vertexLive[id]
}

// IsFaceLive reports whether id still refers to a live face.
func (m *Mesh) IsFaceLive(id FaceID) bool {
	return id >= 0 && int(id) < len(m.faceLive) && m.faceLive[id]
}

// Vertices returns the IDs of every live vertex, in arena order.
func (m *Mesh) Vertices() []VertexID {
	var out []VertexID
	for i, live := range m.vertexLive {
		if live {
			out = append(out, VertexID(i))
		}
	}
	return out
}

// Faces returns the IDs of every live face, in arena order.
func (m *Mesh) Faces() []FaceID {
	var out []FaceID
	for i, live := range m.faceLive {
		if live {
			out = append(out, FaceID(i))
		}
	}
	return out
}

// HalfEdges returns the IDs of every live half-edge, in arena order.
func (m *Mesh) HalfEdges() []HalfEdgeID {
	var out []HalfEdgeID
	for i, live := range m.halfEdgeLive {
		if live {
			out = append(out, HalfEdgeID(i))
		}
	}
	return out
}

// addEdge returns the directed half-edge from -> to, creating it (and its
// twin) on first use. Subsequent calls for the same directed pair return
// the existing half-edge.
func (m *Mesh) addEdge(from, to VertexID) HalfEdgeID {
	key := edgeKey{from, to}
	if id, ok := m.edgeMap[key]; ok {
		return id
	}

	fwdID := HalfEdgeID(len(m.halfEdges))
	twinID := fwdID + 1

	m.halfEdges = append(m.halfEdges,
		HalfEdge{ID: fwdID, Vertex: to, Face: FaceID(None), Twin: twinID, Next: HalfEdgeID(None)},
		HalfEdge{ID: twinID, Vertex: from, Face: FaceID(None), Twin: fwdID, Next: HalfEdgeID(None)},
	)
	m.halfEdgeLive = append(m.halfEdgeLive, true, true)

	m.vertices[from].Edge = fwdID

	m.edgeMap[edgeKey{from, to}] = fwdID
	m.edgeMap[edgeKey{to, from}] = twinID

	return fwdID
}

// AddFace creates a new face bounded by the given vertices, in order
// (cyclic). It rejects fewer than 3 vertices. Face normal is computed from
// the first three vertices' positions as normalize((p1-p0) x (p2-p1));
// callers must supply vertices in consistent winding order.
func (m *Mesh) AddFace(vertexIDs []VertexID) (FaceID, error) {
	n := len(vertexIDs)
	if n < 3 {
		return FaceID(None), fmt.Errorf("halfedge: AddFace requires at least 3 vertices, got %d", n)
	}

	edges := make([]HalfEdgeID, n)
	for i := 0; i < n; i++ {
		edges[i] = m.addEdge(vertexIDs[i], vertexIDs[(i+1)%n])
	}

	faceID := FaceID(len(m.faces))
	for i := 0; i < n; i++ {
		m.halfEdges[edges[i]].Next = edges[(i+1)%n]
		m.halfEdges[edges[i]].Face = faceID
	}

	p0 := m.vertices[vertexIDs[0]].Data.Position
	p1 := m.vertices[vertexIDs[1]].Data.Position
	p2 := m.vertices[vertexIDs[2]].Data.Position
	normal := p1.Sub(p0).Cross(p2.Sub(p1)).Normalize()

	m.faces = append(m.faces, Face{ID: faceID, Edge: edges[0], Normal: normal})
	m.faceLive = append(m.faceLive, true)
	return faceID, nil
}

func (m *Mesh) removeEdgeKey(from, to VertexID) {
	delete(m.edgeMap, edgeKey{from, to})
}

func (m *Mesh) tombstoneHalfEdge(id HalfEdgeID) {
	if id != HalfEdgeID(None) {
		m.halfEdgeLive[id] = false
	}
}

func (m *Mesh) tombstoneFace(id FaceID) {
	if id != FaceID(None) && m.faceLive[id] {
		m.faceLive[id] = false
	}
}
