package halfedge

import (
	"testing"

	"github.com/go3d/raster3d/pkg/vmath"
)

// pentagonFan builds an open fan: one apex vertex surrounded by 5
// triangles over a 5-vertex outer ring. The apex is a fully interior
// vertex (its rotation closes); every ring vertex sits on the mesh
// boundary, since the outer pentagon has no faces on its far side.
func pentagonFan(t *testing.T) (m *Mesh, apex VertexID, ring [5]VertexID) {
	t.Helper()
	m = NewMesh()
	apex = m.AddVertex(VertexData{Position: vmath.Vec3{X: 0, Y: 0, Z: 1}})
	for i := range ring {
		ring[i] = m.AddVertex(VertexData{Position: vmath.Vec3{X: float64(i), Y: 0, Z: 0}})
	}
	for i := 0; i < 5; i++ {
		if _, err := m.AddFace([]VertexID{apex, ring[i], ring[(i+1)%5]}); err != nil {
			t.Fatalf("AddFace: %v", err)
		}
	}
	return m, apex, ring
}

func TestAddFaceRejectsFewerThanThreeVertices(t *testing.T) {
	m := NewMesh()
	a := m.AddVertex(VertexData{})
	b := m.AddVertex(VertexData{})
	if _, err := m.AddFace([]VertexID{a, b}); err == nil {
		t.Error("expected an error for a 2-vertex face, got nil")
	}
}

func TestEdgesFromInteriorApexClose(t *testing.T) {
	m, apex, _ := pentagonFan(t)
	edges := m.EdgesFromVertex(apex)
	if len(edges) != 5 {
		t.Fatalf("apex has %d outgoing edges, want 5", len(edges))
	}
	targets := map[VertexID]bool{}
	for _, e := range edges {
		_, dst := m.VerticesFromEdge(e)
		targets[dst] = true
	}
	if len(targets) != 5 {
		t.Errorf("apex edges reach %d distinct vertices, want 5", len(targets))
	}
}

// TestEdgesFromBoundaryVertex exercises the boundary-restart path: a ring
// vertex touches only two faces, so its rotation never closes and
// EdgesFromVertex must fall back to walking from its first edge's twin.
// Its three outgoing half-edges lead to the apex, ring[1] and (across the
// faceless boundary half-edge) ring[4].
func TestEdgesFromBoundaryVertex(t *testing.T) {
	m, apex, ring := pentagonFan(t)
	edges := m.EdgesFromVertex(ring[0])
	if len(edges) != 3 {
		t.Fatalf("boundary vertex has %d outgoing edges, want 3", len(edges))
	}
	reached := map[VertexID]bool{}
	for _, e := range edges {
		_, dst := m.VerticesFromEdge(e)
		reached[dst] = true
	}
	if !reached[apex] || !reached[ring[1]] {
		t.Errorf("ring[0] should reach the apex and ring[1], got %v", reached)
	}
}

func TestFacesFromVertexExcludesBoundaryEdges(t *testing.T) {
	m, _, ring := pentagonFan(t)
	faces := m.FacesFromVertex(ring[0])
	if len(faces) != 2 {
		t.Errorf("ring[0] touches %d faces, want 2", len(faces))
	}
}

func TestNeighborVerticesOfApex(t *testing.T) {
	m, apex, ring := pentagonFan(t)
	neighbors := m.NeighborVertices(apex)
	if len(neighbors) != 5 {
		t.Fatalf("apex has %d neighbors, want 5", len(neighbors))
	}
	seen := map[VertexID]bool{}
	for _, n := range neighbors {
		seen[n] = true
	}
	for _, r := range ring {
		if !seen[r] {
			t.Errorf("expected ring vertex %d among apex's neighbors", r)
		}
	}
}

// TestDeleteInteriorVertexStitchesHole exercises deleting the fan's apex:
// every face around it collapses, and since the walk closes, the vacated
// hole must be stitched back into a single pentagon face.
func TestDeleteInteriorVertexStitchesHole(t *testing.T) {
	m, apex, ring := pentagonFan(t)
	m.DeleteVertex(apex)

	if m.IsVertexLive(apex) {
		t.Error("apex should be tombstoned after DeleteVertex")
	}
	for _, r := range ring {
		if !m.IsVertexLive(r) {
			t.Errorf("ring vertex %d should survive DeleteVertex(apex)", r)
		}
	}

	live := m.Faces()
	if len(live) != 1 {
		t.Fatalf("expected exactly 1 live face after stitching, got %d", len(live))
	}
	verts := m.VerticesFromFace(live[0])
	if len(verts) != 5 {
		t.Errorf("stitched face has %d vertices, want 5", len(verts))
	}
}

// TestJoinVertexCollapsesSharedEdge collapses two adjacent ring vertices
// and checks the mesh loses exactly one vertex and that the apex's
// triangle fan shrinks from 5 faces to 4.
func TestJoinVertexCollapsesSharedEdge(t *testing.T) {
	m, apex, ring := pentagonFan(t)

	newVert, err := m.JoinVertex(ring[0], ring[1], VertexData{Position: vmath.Vec3{X: 0.5, Y: 0, Z: 0}})
	if err != nil {
		t.Fatalf("JoinVertex: %v", err)
	}
	if !m.IsVertexLive(newVert) {
		t.Fatal("the new joined vertex should be live")
	}
	if m.IsVertexLive(ring[0]) || m.IsVertexLive(ring[1]) {
		t.Error("both collapsed vertices should be tombstoned")
	}

	faces := m.FacesFromVertex(apex)
	if len(faces) != 4 {
		t.Errorf("apex touches %d faces after the join, want 4 (one pair merged)", len(faces))
	}
}

func TestJoinVertexRejectsNonAdjacentVertices(t *testing.T) {
	m, apex, ring := pentagonFan(t)
	_ = apex
	if _, err := m.JoinVertex(ring[0], ring[2], VertexData{}); err == nil {
		t.Error("expected an error joining two non-adjacent ring vertices")
	}
}
